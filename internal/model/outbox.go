package model

import "time"

const (
	OutboxEventSubscribe   = "subscribe"
	OutboxEventUnsubscribe = "unsubscribe"
)

// FollowerOutbox records subscription changes for asynchronous delivery.
type FollowerOutbox struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:16;not null"` // subscribe / unsubscribe
	UserID      uint64 `gorm:"not null"`
	CommunityID uint64 `gorm:"not null"`
	Payload     string `gorm:"type:json;not null"`
	Status      int8   `gorm:"not null;default:0"` // 0=pending 1=sent 2=failed
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (FollowerOutbox) TableName() string { return "follower_outbox" }
