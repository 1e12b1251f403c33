package model

import "time"

type Post struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:50;not null" json:"title"`
	Text        string    `gorm:"size:500" json:"text"`
	CommunityID uint64    `gorm:"not null;index" json:"community_id"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	IsEdited    bool      `gorm:"not null;default:false" json:"is_edited"`
	TimeEdited  time.Time `gorm:"not null" json:"time_edited"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostFilter selects posts by optional criteria; an absent field adds no
// predicate. The persistence gateway translates it into a query.
type PostFilter struct {
	OwnerID     *uint64
	CommunityID *uint64
}
