package service

import (
	"context"
	"time"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/repository/redis"
	"commune/internal/snapshot"

	"github.com/rs/zerolog"
)

type PostStore interface {
	Create(ctx context.Context, p *model.Post) error
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
	List(ctx context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error)
	Update(ctx context.Context, p *model.Post) error
	Delete(ctx context.Context, p *model.Post) error
}

// CommunityFinder is the slice of the community store post creation needs.
type CommunityFinder interface {
	FindByID(ctx context.Context, id uint64) (*model.Community, error)
}

type PostService struct {
	repo        PostStore
	communities CommunityFinder
	cache       EntityCache
}

func NewPostService(repo PostStore, communities CommunityFinder, cache EntityCache) *PostService {
	return &PostService{repo: repo, communities: communities, cache: cache}
}

type PostInput struct {
	Title       string
	Text        string
	CommunityID uint64
}

type PostUpdate struct {
	Title *string
	Text  *string
}

func (u PostUpdate) empty() bool {
	return u.Title == nil && u.Text == nil
}

func (s *PostService) List(ctx context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error) {
	limit, offset = normalizePage(limit, offset)
	posts, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Int("total_count", len(posts)).Msg("posts_fetched_from_db")
	return posts, nil
}

func (s *PostService) Get(ctx context.Context, id uint64) (*model.Post, error) {
	log := zerolog.Ctx(ctx)
	key := redis.PostKey(id)

	if data, ok, err := s.cache.Get(ctx, key); err != nil {
		log.Warn().Err(err).Uint64("post_id", id).Msg("post_cache_degraded")
	} else if ok {
		if p, err := snapshot.DecodePost(data); err == nil {
			log.Info().Uint64("post_id", id).Msg("post_fetched_from_cache")
			return p, nil
		}
		log.Warn().Uint64("post_id", id).Msg("post_cache_decode_failed")
	}

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		log.Warn().Uint64("post_id", id).Str("reason", "not_found").Msg("post_fetch_failed")
		return nil, apperr.NotFound("post not found")
	}
	log.Info().Uint64("post_id", id).Msg("post_fetched_from_db")

	s.refreshCache(ctx, post)
	return post, nil
}

// Create forces the owner to the acting identity regardless of any
// caller-supplied value.
func (s *PostService) Create(ctx context.Context, actor model.Actor, input PostInput) (*model.Post, error) {
	log := zerolog.Ctx(ctx)

	community, err := s.communities.FindByID(ctx, input.CommunityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		log.Warn().Uint64("community_id", input.CommunityID).Str("reason", "not_found").Msg("post_create_failed")
		return nil, apperr.NotFound("community not found")
	}

	post := &model.Post{
		Title:       input.Title,
		Text:        input.Text,
		CommunityID: input.CommunityID,
		OwnerID:     actor.ID,
		TimeEdited:  time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	log.Info().Uint64("post_id", post.ID).Msg("post_created")

	s.refreshCache(ctx, post)
	return post, nil
}

// Update applies only the supplied fields. Any content change marks the post
// edited and refreshes the edit timestamp.
func (s *PostService) Update(ctx context.Context, actor model.Actor, id uint64, updates PostUpdate) (*model.Post, error) {
	log := zerolog.Ctx(ctx)

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		log.Warn().Uint64("post_id", id).Str("reason", "not_found").Msg("post_update_failed")
		return nil, apperr.NotFound("post not found")
	}

	if !canManage(actor, post.OwnerID) {
		log.Warn().Uint64("post_id", id).Str("reason", "permission_denied").Msg("post_update_failed")
		return nil, apperr.PermissionDenied("you do not have permission to edit other posts")
	}

	if updates.empty() {
		log.Warn().Uint64("post_id", id).Str("reason", "data_missed").Msg("post_update_failed")
		return nil, apperr.BadRequest("no update fields provided")
	}

	if updates.Title != nil {
		post.Title = *updates.Title
	}
	if updates.Text != nil {
		post.Text = *updates.Text
	}
	post.IsEdited = true
	post.TimeEdited = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	log.Info().Uint64("post_id", id).Msg("post_updated")

	s.refreshCache(ctx, post)
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	log := zerolog.Ctx(ctx)

	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		log.Warn().Uint64("post_id", id).Str("reason", "not_found").Msg("post_delete_failed")
		return apperr.NotFound("post not found")
	}

	if !canManage(actor, post.OwnerID) {
		log.Warn().Uint64("post_id", id).Str("reason", "permission_denied").Msg("post_delete_failed")
		return apperr.PermissionDenied("you do not have permission to delete other posts")
	}

	if err := s.repo.Delete(ctx, post); err != nil {
		return err
	}
	log.Info().Uint64("post_id", id).Msg("post_deleted")

	if err := s.cache.Delete(ctx, redis.PostKey(id)); err != nil {
		log.Warn().Err(err).Uint64("post_id", id).Msg("post_cache_degraded")
	} else {
		log.Debug().Uint64("post_id", id).Msg("post_cache_deleted")
	}
	return nil
}

func (s *PostService) refreshCache(ctx context.Context, p *model.Post) {
	log := zerolog.Ctx(ctx)
	data, err := snapshot.EncodePost(p)
	if err != nil {
		log.Warn().Err(err).Uint64("post_id", p.ID).Msg("post_cache_degraded")
		return
	}
	if err := s.cache.Set(ctx, redis.PostKey(p.ID), data); err != nil {
		log.Warn().Err(err).Uint64("post_id", p.ID).Msg("post_cache_degraded")
		return
	}
	log.Debug().Uint64("post_id", p.ID).Msg("post_cached")
}
