package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EntityTTL bounds how long a cached snapshot may outlive the record it was
// taken from. Every cache write in the system uses it.
const EntityTTL = 120 * time.Second

const (
	communityKeyPrefix = "com"
	postKeyPrefix      = "post"
)

func CommunityKey(id uint64) string {
	return fmt.Sprintf("%s:%d", communityKeyPrefix, id)
}

func PostKey(id uint64) string {
	return fmt.Sprintf("%s:%d", postKeyPrefix, id)
}

// EntityCacheRepository holds serialized snapshots of hot entities keyed by
// entity-type tag and id. Single-key operations only.
type EntityCacheRepository struct{}

func NewEntityCacheRepository() *EntityCacheRepository {
	return &EntityCacheRepository{}
}

func (r *EntityCacheRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *EntityCacheRepository) Set(ctx context.Context, key string, value []byte) error {
	return Client.Set(ctx, key, value, EntityTTL).Err()
}

func (r *EntityCacheRepository) Delete(ctx context.Context, key string) error {
	return Client.Del(ctx, key).Err()
}
