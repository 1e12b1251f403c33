package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"commune/internal/model"

	"gorm.io/gorm"
)

type CommunityRepository struct {
	DB *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) *CommunityRepository {
	return &CommunityRepository{DB: db}
}

func (r *CommunityRepository) Create(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *CommunityRepository) FindByID(ctx context.Context, id uint64) (*model.Community, error) {
	var community model.Community
	err := r.DB.WithContext(ctx).First(&community, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *CommunityRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Community{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

func (r *CommunityRepository) List(ctx context.Context, limit, offset int) ([]model.Community, error) {
	var list []model.Community
	err := r.DB.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommunityRepository) Update(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

// Delete cascades: comments of the community's posts, the posts, the
// follower rows, then the community itself, in one transaction.
func (r *CommunityRepository) Delete(ctx context.Context, c *model.Community) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCommunityTree(tx, c.ID)
	})
}

func deleteCommunityTree(tx *gorm.DB, communityID uint64) error {
	var postIDs []uint64
	if err := tx.Model(&model.Post{}).
		Where("community_id = ?", communityID).
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
	if err := tx.Where("community_id = ?", communityID).Delete(&model.CommunityFollower{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Community{}, communityID).Error
}

func (r *CommunityRepository) ListFollowers(ctx context.Context, communityID uint64, limit, offset int) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).
		Joins("JOIN community_followers cf ON cf.user_id = users.id").
		Where("cf.community_id = ?", communityID).
		Order("users.id").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *CommunityRepository) IsFollower(ctx context.Context, communityID, userID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.CommunityFollower{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddFollower inserts the relation and records a subscribe event in the
// outbox within the same transaction.
func (r *CommunityRepository) AddFollower(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.CommunityFollower{
			CommunityID: communityID,
			UserID:      userID,
		}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.OutboxEventSubscribe, userID, communityID)
	})
}

func (r *CommunityRepository) RemoveFollower(ctx context.Context, communityID, userID uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("community_id = ? AND user_id = ?", communityID, userID).
			Delete(&model.CommunityFollower{}).Error; err != nil {
			return err
		}
		return insertOutbox(tx, model.OutboxEventUnsubscribe, userID, communityID)
	})
}

func (r *CommunityRepository) ListPosts(ctx context.Context, communityID uint64, limit, offset int) ([]model.Post, error) {
	var list []model.Post
	err := r.DB.WithContext(ctx).
		Where("community_id = ?", communityID).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func insertOutbox(tx *gorm.DB, event string, userID, communityID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time":   time.Now().UTC().Format(time.RFC3339Nano),
		"user_id":      userID,
		"community_id": communityID,
	})
	return tx.Create(&model.FollowerOutbox{
		EventType:   event,
		UserID:      userID,
		CommunityID: communityID,
		Payload:     string(payload),
	}).Error
}
