package model

import "time"

type Comment struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"size:500;not null" json:"text"`
	PostID     uint64    `gorm:"not null;index" json:"post_id"`
	OwnerID    uint64    `gorm:"not null;index" json:"owner_id"`
	IsEdited   bool      `gorm:"not null;default:false" json:"is_edited"`
	TimeEdited time.Time `gorm:"not null" json:"time_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
