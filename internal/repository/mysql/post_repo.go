package mysql

import (
	"context"
	"errors"

	"commune/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List applies the filter's present fields as predicates; absent fields add
// none.
func (r *PostRepository) List(ctx context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error) {
	q := r.DB.WithContext(ctx).Model(&model.Post{})
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.CommunityID != nil {
		q = q.Where("community_id = ?", *filter.CommunityID)
	}
	var list []model.Post
	err := q.Order("id").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *PostRepository) Update(ctx context.Context, p *model.Post) error {
	return r.DB.WithContext(ctx).Save(p).Error
}

// Delete removes the post and its comments in one transaction.
func (r *PostRepository) Delete(ctx context.Context, p *model.Post) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", p.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, p.ID).Error
	})
}
