// Package service holds the business rules of the platform: who may mutate
// what, how uniqueness is enforced, and how cache entries are kept consistent
// with persisted state. Every operation receives the acting identity
// explicitly; nothing is read from ambient globals.
package service

import (
	"context"

	"commune/internal/model"
)

// EntityCache is the key/value gateway for serialized entity snapshots.
// Get reports (value, present, error); an absent key is not an error.
type EntityCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// canManage is the shared ownership rule: the owner of a record, or an admin,
// may mutate it.
func canManage(actor model.Actor, ownerID uint64) bool {
	return actor.ID == ownerID || actor.IsAdmin()
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
