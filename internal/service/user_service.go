package service

import (
	"context"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/pkg"

	"github.com/rs/zerolog"
)

type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, u *model.User) error
	ListSubscriptions(ctx context.Context, userID uint64, limit, offset int) ([]model.Community, error)
}

// UserService applies the account rules. Users are never cached; every read
// goes to persistence.
type UserService struct {
	repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

type UserInput struct {
	Username  string
	Password  string
	AvatarURL string
	Role      string
}

type UserUpdate struct {
	Username  *string
	Password  *string
	AvatarURL *string
	Role      *string
}

func (u UserUpdate) empty() bool {
	return u.Username == nil && u.Password == nil && u.AvatarURL == nil && u.Role == nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	limit, offset = normalizePage(limit, offset)
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Int("total_count", len(users)).Msg("users_fetched_from_db")
	return users, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	log := zerolog.Ctx(ctx)
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Warn().Str("target_username", username).Str("reason", "not_found").Msg("user_fetch_failed")
		return nil, apperr.NotFound("user not found")
	}
	log.Info().Uint64("target_user_id", user.ID).Msg("user_fetched_from_db")
	return user, nil
}

// GetSubscriptions lists the communities the given user follows.
func (s *UserService) GetSubscriptions(ctx context.Context, userID uint64, limit, offset int) ([]model.Community, error) {
	log := zerolog.Ctx(ctx)
	limit, offset = normalizePage(limit, offset)

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "not_found").Msg("user_subscribes_fetch_failed")
		return nil, apperr.NotFound("user not found")
	}

	log.Info().Uint64("target_user_id", userID).Msg("user_subscribes_fetched_from_db")
	return s.repo.ListSubscriptions(ctx, userID, limit, offset)
}

func (s *UserService) GetSubscriptionsByUsername(ctx context.Context, username string, limit, offset int) ([]model.Community, error) {
	log := zerolog.Ctx(ctx)
	limit, offset = normalizePage(limit, offset)

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Warn().Str("target_username", username).Str("reason", "not_found").Msg("user_subscribes_fetch_failed")
		return nil, apperr.NotFound("user not found")
	}

	log.Info().Uint64("target_user_id", user.ID).Msg("user_subscribes_fetched_from_db")
	return s.repo.ListSubscriptions(ctx, user.ID, limit, offset)
}

// Create registers a user on someone's behalf. An admin role may only be
// assigned by an admin actor.
func (s *UserService) Create(ctx context.Context, actor model.Actor, input UserInput) (*model.User, error) {
	log := zerolog.Ctx(ctx)

	exists, err := s.repo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Warn().Str("target_username", input.Username).Str("reason", "already_exist").Msg("user_create_failed")
		return nil, apperr.Conflict("user " + input.Username + " already exists")
	}

	role := input.Role
	if role == "" {
		role = model.RoleUser
	}
	if role == model.RoleAdmin && !actor.IsAdmin() {
		log.Warn().Str("target_user_role", role).Str("reason", "permission_denied").Msg("user_create_failed")
		return nil, apperr.PermissionDenied("you do not have permission to create admin users")
	}

	hash, err := pkg.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       input.Username,
		HashedPassword: hash,
		Role:           role,
		AvatarURL:      input.AvatarURL,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Uint64("target_user_id", user.ID).Msg("user_created")
	return user, nil
}

// Update applies the supplied fields to the target account. Only the account
// owner or an admin may update, and promotion to admin stays admin-only.
func (s *UserService) Update(ctx context.Context, actor model.Actor, userID uint64, updates UserUpdate) (*model.User, error) {
	log := zerolog.Ctx(ctx)

	if actor.ID != userID && !actor.IsAdmin() {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "permission_denied").Msg("user_update_failed")
		return nil, apperr.PermissionDenied("you do not have permission to update other users")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "not_found").Msg("user_update_failed")
		return nil, apperr.NotFound("user not found")
	}

	if updates.empty() {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "data_missed").Msg("user_update_failed")
		return nil, apperr.BadRequest("no update fields provided")
	}

	if updates.Username != nil {
		exists, err := s.repo.ExistsByUsername(ctx, *updates.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			log.Warn().Str("target_username", *updates.Username).Str("reason", "already_exist").Msg("user_update_failed")
			return nil, apperr.Conflict("user " + *updates.Username + " already exists")
		}
		user.Username = *updates.Username
	}
	if updates.Password != nil {
		hash, err := pkg.HashPassword(*updates.Password)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = hash
	}
	if updates.AvatarURL != nil {
		user.AvatarURL = *updates.AvatarURL
	}
	if updates.Role != nil {
		if *updates.Role == model.RoleAdmin && !actor.IsAdmin() {
			log.Warn().Uint64("target_user_id", userID).Str("reason", "permission_denied").Msg("user_update_failed")
			return nil, apperr.PermissionDenied("you do not have permission to set admin role")
		}
		user.Role = *updates.Role
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Uint64("target_user_id", userID).Msg("user_updated")
	return user, nil
}

// Delete removes the account. The check is id-based: the account owner or an
// admin.
func (s *UserService) Delete(ctx context.Context, actor model.Actor, userID uint64) error {
	log := zerolog.Ctx(ctx)

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "not_found").Msg("user_delete_failed")
		return apperr.NotFound("user not found")
	}

	if actor.ID != userID && !actor.IsAdmin() {
		log.Warn().Uint64("target_user_id", userID).Str("reason", "permission_denied").Msg("user_delete_failed")
		return apperr.PermissionDenied("you do not have permission to delete other users")
	}

	if err := s.repo.Delete(ctx, user); err != nil {
		return err
	}
	log.Info().Uint64("target_user_id", userID).Msg("user_deleted")
	return nil
}
