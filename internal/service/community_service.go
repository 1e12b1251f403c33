package service

import (
	"context"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/repository/redis"
	"commune/internal/snapshot"

	"github.com/rs/zerolog"
)

type CommunityStore interface {
	Create(ctx context.Context, c *model.Community) error
	FindByID(ctx context.Context, id uint64) (*model.Community, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]model.Community, error)
	Update(ctx context.Context, c *model.Community) error
	Delete(ctx context.Context, c *model.Community) error
	ListFollowers(ctx context.Context, communityID uint64, limit, offset int) ([]model.User, error)
	IsFollower(ctx context.Context, communityID, userID uint64) (bool, error)
	AddFollower(ctx context.Context, communityID, userID uint64) error
	RemoveFollower(ctx context.Context, communityID, userID uint64) error
	ListPosts(ctx context.Context, communityID uint64, limit, offset int) ([]model.Post, error)
}

type CommunityService struct {
	repo  CommunityStore
	cache EntityCache
}

func NewCommunityService(repo CommunityStore, cache EntityCache) *CommunityService {
	return &CommunityService{repo: repo, cache: cache}
}

type CommunityInput struct {
	Name        string
	Description string
	PhotoURL    string
}

type CommunityUpdate struct {
	Name        *string
	Description *string
	PhotoURL    *string
}

func (u CommunityUpdate) empty() bool {
	return u.Name == nil && u.Description == nil && u.PhotoURL == nil
}

func (s *CommunityService) List(ctx context.Context, limit, offset int) ([]model.Community, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Int("total_count", len(list)).Msg("communities_fetched_from_db")
	return list, nil
}

// Get serves from cache inside the TTL window and falls back to persistence
// on a miss, repopulating the entry on the way out. A payload that fails to
// decode counts as a miss.
func (s *CommunityService) Get(ctx context.Context, id uint64) (*model.Community, error) {
	log := zerolog.Ctx(ctx)
	key := redis.CommunityKey(id)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Uint64("community_id", id).Msg("community_cache_degraded")
	} else if ok {
		if c, err := snapshot.DecodeCommunity(data); err == nil {
			log.Info().Uint64("community_id", id).Msg("fetched_community_from_cache")
			return c, nil
		}
		log.Warn().Uint64("community_id", id).Msg("community_cache_decode_failed")
	}

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_fetch_failed")
		return nil, apperr.NotFound("community not found")
	}
	log.Info().Uint64("community_id", id).Msg("community_fetched_from_db")

	s.refreshCache(ctx, community)
	return community, nil
}

func (s *CommunityService) Create(ctx context.Context, actor model.Actor, input CommunityInput) (*model.Community, error) {
	log := zerolog.Ctx(ctx)

	exists, err := s.repo.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		log.Warn().Str("community_name", input.Name).Str("reason", "already_exist").Msg("community_create_failed")
		return nil, apperr.Conflict("community " + input.Name + " already exists")
	}

	community := &model.Community{
		Name:        input.Name,
		Description: input.Description,
		PhotoURL:    input.PhotoURL,
		OwnerID:     actor.ID,
	}
	if err := s.repo.Create(ctx, community); err != nil {
		return nil, err
	}
	log.Info().Uint64("community_id", community.ID).Msg("community_created")

	s.refreshCache(ctx, community)
	return community, nil
}

func (s *CommunityService) Update(ctx context.Context, actor model.Actor, id uint64, updates CommunityUpdate) (*model.Community, error) {
	log := zerolog.Ctx(ctx)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_update_failed")
		return nil, apperr.NotFound("community not found")
	}

	if !canManage(actor, community.OwnerID) {
		log.Warn().Uint64("community_id", id).Str("reason", "permission_denied").Msg("community_update_failed")
		return nil, apperr.PermissionDenied("you do not have permission to edit other communities")
	}

	if updates.empty() {
		log.Warn().Uint64("community_id", id).Str("reason", "data_missed").Msg("community_update_failed")
		return nil, apperr.BadRequest("no update fields provided")
	}

	if updates.Name != nil {
		exists, err := s.repo.ExistsByName(ctx, *updates.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			log.Warn().Str("community_name", *updates.Name).Str("reason", "already_exists").Msg("community_update_failed")
			return nil, apperr.Conflict("community " + *updates.Name + " already exists")
		}
		community.Name = *updates.Name
	}
	if updates.Description != nil {
		community.Description = *updates.Description
	}
	if updates.PhotoURL != nil {
		community.PhotoURL = *updates.PhotoURL
	}

	if err := s.repo.Update(ctx, community); err != nil {
		return nil, err
	}
	log.Info().Uint64("community_id", id).Msg("community_updated")

	s.refreshCache(ctx, community)
	return community, nil
}

func (s *CommunityService) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	log := zerolog.Ctx(ctx)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_delete_failed")
		return apperr.NotFound("community not found")
	}

	if !canManage(actor, community.OwnerID) {
		log.Warn().Uint64("community_id", id).Str("reason", "permission_denied").Msg("community_delete_failed")
		return apperr.PermissionDenied("you do not have permission to delete other communities")
	}

	if err := s.repo.Delete(ctx, community); err != nil {
		return err
	}
	log.Info().Uint64("community_id", id).Msg("community_deleted")

	if err := s.cache.Delete(ctx, redis.CommunityKey(id)); err != nil {
		log.Warn().Err(err).Uint64("community_id", id).Msg("community_cache_degraded")
	} else {
		log.Debug().Uint64("community_id", id).Msg("community_cache_deleted")
	}
	return nil
}

func (s *CommunityService) GetFollowers(ctx context.Context, id uint64, limit, offset int) ([]model.User, error) {
	log := zerolog.Ctx(ctx)
	limit, offset = normalizePage(limit, offset)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_fetch_followers_failed")
		return nil, apperr.NotFound("community not found")
	}

	log.Info().Uint64("community_id", id).Msg("community_followers_fetched_from_db")
	return s.repo.ListFollowers(ctx, id, limit, offset)
}

// AddFollower subscribes the actor to the community. The relation is the
// actor's own membership; nobody subscribes on another user's behalf.
func (s *CommunityService) AddFollower(ctx context.Context, actor model.Actor, id uint64) error {
	log := zerolog.Ctx(ctx)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_add_follower_failed")
		return apperr.NotFound("community not found")
	}

	following, err := s.repo.IsFollower(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if following {
		log.Warn().Uint64("community_id", id).Uint64("follower_id", actor.ID).
			Str("reason", "follower_is_exist").Msg("community_add_follower_failed")
		return apperr.Conflict("follower already exists")
	}

	if err := s.repo.AddFollower(ctx, id, actor.ID); err != nil {
		return err
	}
	log.Info().Uint64("community_id", id).Uint64("follower_id", actor.ID).Msg("community_added_follower")
	return nil
}

func (s *CommunityService) RemoveFollower(ctx context.Context, actor model.Actor, id uint64) error {
	log := zerolog.Ctx(ctx)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_follower_delete_failed")
		return apperr.NotFound("community not found")
	}

	following, err := s.repo.IsFollower(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !following {
		log.Warn().Uint64("community_id", id).Uint64("follower_id", actor.ID).
			Str("reason", "not_found").Msg("community_follower_delete_failed")
		return apperr.NotFound("user is not subscribed")
	}

	if err := s.repo.RemoveFollower(ctx, id, actor.ID); err != nil {
		return err
	}
	log.Info().Uint64("community_id", id).Uint64("follower_id", actor.ID).Msg("community_follower_deleted")
	return nil
}

func (s *CommunityService) GetPosts(ctx context.Context, id uint64, limit, offset int) ([]model.Post, error) {
	log := zerolog.Ctx(ctx)
	limit, offset = normalizePage(limit, offset)

	community, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if community == nil {
		log.Warn().Uint64("community_id", id).Str("reason", "not_found").Msg("community_posts_fetch_failed")
		return nil, apperr.NotFound("community not found")
	}

	posts, err := s.repo.ListPosts(ctx, id, limit, offset)
	if err != nil {
		return nil, err
	}
	log.Info().Uint64("community_id", id).Int("total_count", len(posts)).Msg("community_posts_fetched_from_db")
	return posts, nil
}

// refreshCache overwrites the cache entry with the post-write state so the
// next read is warm. Failures degrade to persistence and never surface.
func (s *CommunityService) refreshCache(ctx context.Context, c *model.Community) {
	log := zerolog.Ctx(ctx)
	data, err := snapshot.EncodeCommunity(c)
	if err != nil {
		log.Warn().Err(err).Uint64("community_id", c.ID).Msg("community_cache_degraded")
		return
	}
	if err := s.cache.Set(ctx, redis.CommunityKey(c.ID), data); err != nil {
		log.Warn().Err(err).Uint64("community_id", c.ID).Msg("community_cache_degraded")
		return
	}
	log.Debug().Uint64("community_id", c.ID).Msg("community_cached")
}
