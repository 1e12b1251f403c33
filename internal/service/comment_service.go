package service

import (
	"context"
	"time"

	"commune/internal/apperr"
	"commune/internal/model"

	"github.com/rs/zerolog"
)

type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	FindByID(ctx context.Context, id uint64) (*model.Comment, error)
	ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]model.Comment, error)
	Update(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, c *model.Comment) error
}

// PostFinder is the slice of the post store comment operations need.
type PostFinder interface {
	FindByID(ctx context.Context, id uint64) (*model.Post, error)
}

// CommentService applies the comment rules. Comments are never cached.
type CommentService struct {
	repo  CommentStore
	posts PostFinder
}

func NewCommentService(repo CommentStore, posts PostFinder) *CommentService {
	return &CommentService{repo: repo, posts: posts}
}

type CommentUpdate struct {
	Text *string
}

func (s *CommentService) ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]model.Comment, error) {
	log := zerolog.Ctx(ctx)
	limit, offset = normalizePage(limit, offset)

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		log.Warn().Uint64("post_id", postID).Str("reason", "not_found").Msg("comments_fetch_failed")
		return nil, apperr.NotFound("post not found")
	}

	comments, err := s.repo.ListByPost(ctx, postID, limit, offset)
	if err != nil {
		return nil, err
	}
	log.Info().Uint64("post_id", postID).Int("total_count", len(comments)).Msg("comments_fetched_from_db")
	return comments, nil
}

// Create forces the owner to the acting identity.
func (s *CommentService) Create(ctx context.Context, actor model.Actor, postID uint64, text string) (*model.Comment, error) {
	log := zerolog.Ctx(ctx)

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		log.Warn().Uint64("post_id", postID).Str("reason", "not_found").Msg("comment_create_failed")
		return nil, apperr.NotFound("post not found")
	}

	comment := &model.Comment{
		Text:       text,
		PostID:     postID,
		OwnerID:    actor.ID,
		TimeEdited: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	log.Info().Uint64("comment_id", comment.ID).Msg("comment_created")
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, actor model.Actor, id uint64, updates CommentUpdate) (*model.Comment, error) {
	log := zerolog.Ctx(ctx)

	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		log.Warn().Uint64("comment_id", id).Str("reason", "not_found").Msg("comment_update_failed")
		return nil, apperr.NotFound("comment not found")
	}

	if !canManage(actor, comment.OwnerID) {
		log.Warn().Uint64("comment_id", id).Str("reason", "permission_denied").Msg("comment_update_failed")
		return nil, apperr.PermissionDenied("permission denied")
	}

	if updates.Text == nil {
		log.Warn().Uint64("comment_id", id).Str("reason", "data_missed").Msg("comment_update_failed")
		return nil, apperr.BadRequest("no update fields provided")
	}

	comment.Text = *updates.Text
	comment.IsEdited = true
	comment.TimeEdited = time.Now().UTC()

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, err
	}
	log.Info().Uint64("comment_id", id).Msg("comment_updated")
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, actor model.Actor, id uint64) error {
	log := zerolog.Ctx(ctx)

	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		log.Warn().Uint64("comment_id", id).Str("reason", "not_found").Msg("comment_delete_failed")
		return apperr.NotFound("comment not found")
	}

	if !canManage(actor, comment.OwnerID) {
		log.Warn().Uint64("comment_id", id).Str("reason", "permission_denied").Msg("comment_delete_failed")
		return apperr.PermissionDenied("permission denied")
	}

	if err := s.repo.Delete(ctx, comment); err != nil {
		return err
	}
	log.Info().Uint64("comment_id", id).Msg("comment_deleted")
	return nil
}
