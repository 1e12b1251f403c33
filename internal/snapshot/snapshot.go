// Package snapshot defines the canonical serialized form of cached entities.
// Snapshots are versioned and decoupled from the persistence records; a
// payload that fails to decode, or carries an unexpected version, is reported
// as ErrIncompatible and treated by callers as a cache miss.
package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"commune/internal/model"
)

const Version = 1

var ErrIncompatible = errors.New("snapshot: incompatible payload")

type Community struct {
	Version     int    `json:"v"`
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PhotoURL    string `json:"photo_url"`
	OwnerID     uint64 `json:"owner_id"`
}

type Post struct {
	Version     int       `json:"v"`
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	CommunityID uint64    `json:"community_id"`
	OwnerID     uint64    `json:"owner_id"`
	IsEdited    bool      `json:"is_edited"`
	TimeEdited  time.Time `json:"time_edited"`
}

func EncodeCommunity(c *model.Community) ([]byte, error) {
	return json.Marshal(Community{
		Version:     Version,
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		PhotoURL:    c.PhotoURL,
		OwnerID:     c.OwnerID,
	})
}

func DecodeCommunity(data []byte) (*model.Community, error) {
	var s Community
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrIncompatible
	}
	if s.Version != Version || s.ID == 0 {
		return nil, ErrIncompatible
	}
	return &model.Community{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		PhotoURL:    s.PhotoURL,
		OwnerID:     s.OwnerID,
	}, nil
}

func EncodePost(p *model.Post) ([]byte, error) {
	return json.Marshal(Post{
		Version:     Version,
		ID:          p.ID,
		Title:       p.Title,
		Text:        p.Text,
		CommunityID: p.CommunityID,
		OwnerID:     p.OwnerID,
		IsEdited:    p.IsEdited,
		TimeEdited:  p.TimeEdited,
	})
}

func DecodePost(data []byte) (*model.Post, error) {
	var s Post
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, ErrIncompatible
	}
	if s.Version != Version || s.ID == 0 {
		return nil, ErrIncompatible
	}
	return &model.Post{
		ID:          s.ID,
		Title:       s.Title,
		Text:        s.Text,
		CommunityID: s.CommunityID,
		OwnerID:     s.OwnerID,
		IsEdited:    s.IsEdited,
		TimeEdited:  s.TimeEdited,
	}, nil
}
