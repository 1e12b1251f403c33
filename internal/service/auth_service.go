package service

import (
	"context"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/pkg"

	"github.com/rs/zerolog"
)

type AuthService struct {
	repo   UserStore
	tokens *pkg.TokenManager
}

func NewAuthService(repo UserStore, tokens *pkg.TokenManager) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a self-service account. The role is always "user";
// privileged accounts go through UserService.Create under an admin actor.
func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	log := zerolog.Ctx(ctx)

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Warn().Str("target_username", username).Str("reason", "already_exist").Msg("user_register_failed")
		return nil, apperr.Conflict("user " + username + " already exists")
	}

	hash, err := pkg.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		HashedPassword: hash,
		Role:           model.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Uint64("target_user_id", user.ID).Msg("user_registered")
	return user, nil
}

// Login verifies credentials and issues a signed token carrying the subject
// username and role. A bad username and a bad password are indistinguishable
// to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	log := zerolog.Ctx(ctx)

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !pkg.VerifyPassword(password, user.HashedPassword) {
		log.Warn().Str("target_username", username).Str("reason", "bad_credentials").Msg("user_login_failed")
		return "", nil, apperr.Unauthenticated("incorrect username or password")
	}

	token, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}
	log.Info().Uint64("target_user_id", user.ID).Msg("user_logged_in")
	return token, user, nil
}
