package mysql

import (
	"context"
	"errors"

	"commune/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64, limit, offset int) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommentRepository) Update(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *CommentRepository) Delete(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Delete(&model.Comment{}, c.ID).Error
}
