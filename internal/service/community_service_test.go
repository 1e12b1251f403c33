package service

import (
	"context"
	"testing"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/repository/redis"
	"commune/internal/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCommunityService() (*CommunityService, *fakeCommunityStore, *fakeCache) {
	store := newFakeCommunityStore()
	cache := newFakeCache()
	return NewCommunityService(store, cache), store, cache
}

func strPtr(s string) *string { return &s }

func TestCommunityCreateAndGet(t *testing.T) {
	svc, _, cache := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}

	created, err := svc.Create(ctx, owner, CommunityInput{Name: "foo", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.OwnerID)

	// write-through: the very next read is warm
	_, ok := cache.data[redis.CommunityKey(created.ID)]
	assert.True(t, ok)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Name)
}

func TestCommunityCreateDuplicateName(t *testing.T) {
	svc, store, _ := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}

	_, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.Actor{ID: 2, Role: model.RoleUser}, CommunityInput{Name: "foo"})
	assert.True(t, apperr.IsConflict(err))
	assert.Len(t, store.communities, 1)
}

func TestCommunityUpdateScenario(t *testing.T) {
	svc, store, _ := newCommunityService()
	ctx := context.Background()
	ownerA := model.Actor{ID: 1, Role: model.RoleUser}
	otherB := model.Actor{ID: 2, Role: model.RoleUser}

	created, err := svc.Create(ctx, ownerA, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	// non-owner update is denied and leaves the record unchanged
	_, err = svc.Update(ctx, otherB, created.ID, CommunityUpdate{Description: strPtr("x")})
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Equal(t, "", store.communities[created.ID].Description)

	// empty update is a bad request
	_, err = svc.Update(ctx, ownerA, created.ID, CommunityUpdate{})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	// owner update applies and the next read sees it
	_, err = svc.Update(ctx, ownerA, created.ID, CommunityUpdate{Description: strPtr("x")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Description)
}

func TestCommunityUpdateByAdmin(t *testing.T) {
	svc, _, _ := newCommunityService()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	admin := model.Actor{ID: 99, Role: model.RoleAdmin}
	updated, err := svc.Update(ctx, admin, created.ID, CommunityUpdate{Description: strPtr("moderated")})
	require.NoError(t, err)
	assert.Equal(t, "moderated", updated.Description)
}

func TestCommunityRenameConflict(t *testing.T) {
	svc, _, _ := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}

	_, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner, CommunityInput{Name: "bar"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, second.ID, CommunityUpdate{Name: strPtr("foo")})
	assert.True(t, apperr.IsConflict(err))
}

func TestCommunityUpdateRefreshesCache(t *testing.T) {
	svc, _, cache := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}

	created, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, created.ID, CommunityUpdate{Description: strPtr("fresh")})
	require.NoError(t, err)

	cached, err := snapshot.DecodeCommunity(cache.data[redis.CommunityKey(created.ID)])
	require.NoError(t, err)
	assert.Equal(t, "fresh", cached.Description)
}

func TestCommunityDeletePurgesCache(t *testing.T) {
	svc, _, cache := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}

	created, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	_, ok := cache.data[redis.CommunityKey(created.ID)]
	assert.False(t, ok)

	_, err = svc.Get(ctx, created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCommunityDeleteDeniedForNonOwner(t *testing.T) {
	svc, store, _ := newCommunityService()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	err = svc.Delete(ctx, model.Actor{ID: 2, Role: model.RoleUser}, created.ID)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Len(t, store.communities, 1)
}

func TestCommunityGetCorruptCacheFallsBack(t *testing.T) {
	svc, _, cache := newCommunityService()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	key := redis.CommunityKey(created.ID)
	cache.data[key] = []byte("not json")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Name)

	// repopulated with a decodable snapshot
	_, err = snapshot.DecodeCommunity(cache.data[key])
	assert.NoError(t, err)
}

func TestCommunityGetCacheErrorDegrades(t *testing.T) {
	svc, _, cache := newCommunityService()
	ctx := context.Background()

	created, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	cache.getErr = assert.AnError
	cache.setErr = assert.AnError

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "foo", got.Name)
}

func TestAddFollower(t *testing.T) {
	svc, store, _ := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}
	follower := model.Actor{ID: 2, Role: model.RoleUser}

	created, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	require.NoError(t, svc.AddFollower(ctx, follower, created.ID))
	assert.True(t, store.followers[created.ID][follower.ID])

	// idempotence: re-adding is a conflict
	err = svc.AddFollower(ctx, follower, created.ID)
	assert.True(t, apperr.IsConflict(err))

	// a subscribe event was recorded exactly once
	require.Len(t, store.outbox, 1)
	assert.Equal(t, model.OutboxEventSubscribe, store.outbox[0].EventType)
}

func TestRemoveFollower(t *testing.T) {
	svc, store, _ := newCommunityService()
	ctx := context.Background()
	owner := model.Actor{ID: 1, Role: model.RoleUser}
	follower := model.Actor{ID: 2, Role: model.RoleUser}

	created, err := svc.Create(ctx, owner, CommunityInput{Name: "foo"})
	require.NoError(t, err)

	// removing before subscribing is not found
	err = svc.RemoveFollower(ctx, follower, created.ID)
	assert.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.AddFollower(ctx, follower, created.ID))
	require.NoError(t, svc.RemoveFollower(ctx, follower, created.ID))
	assert.False(t, store.followers[created.ID][follower.ID])
}

func TestFollowerOpsOnMissingCommunity(t *testing.T) {
	svc, _, _ := newCommunityService()
	ctx := context.Background()
	actor := model.Actor{ID: 2, Role: model.RoleUser}

	assert.True(t, apperr.IsNotFound(svc.AddFollower(ctx, actor, 404)))
	assert.True(t, apperr.IsNotFound(svc.RemoveFollower(ctx, actor, 404)))

	_, err := svc.GetFollowers(ctx, 404, 20, 0)
	assert.True(t, apperr.IsNotFound(err))
}
