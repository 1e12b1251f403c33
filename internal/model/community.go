package model

import "time"

type Community struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:50;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	PhotoURL    string    `gorm:"size:255" json:"photo_url,omitempty"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CommunityFollower is the user-to-community subscription relation.
type CommunityFollower struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_follower"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_follower"`
	CreatedAt   time.Time
}

func (CommunityFollower) TableName() string { return "community_followers" }
