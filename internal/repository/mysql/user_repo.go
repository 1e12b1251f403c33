package mysql

import (
	"context"
	"errors"

	"commune/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

// FindByID returns (nil, nil) when no user exists with the given id.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("username = ?", username).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

// Delete removes the user and everything reachable along ownership edges:
// owned communities with their posts, comments and follower rows, posts made
// elsewhere with their comments, stray comments and the user's own
// subscriptions.
func (r *UserRepository) Delete(ctx context.Context, u *model.User) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var communityIDs []uint64
		if err := tx.Model(&model.Community{}).
			Where("owner_id = ?", u.ID).
			Pluck("id", &communityIDs).Error; err != nil {
			return err
		}
		for _, cid := range communityIDs {
			if err := deleteCommunityTree(tx, cid); err != nil {
				return err
			}
		}

		var postIDs []uint64
		if err := tx.Model(&model.Post{}).
			Where("owner_id = ?", u.ID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&model.Post{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("owner_id = ?", u.ID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", u.ID).Delete(&model.CommunityFollower{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, u.ID).Error
	})
}

// ListSubscriptions pages through the communities the user follows.
func (r *UserRepository) ListSubscriptions(ctx context.Context, userID uint64, limit, offset int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_followers cf ON cf.community_id = communities.id").
		Where("cf.user_id = ?", userID).
		Order("communities.id").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}
