package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"commune/internal/apperr"
	"commune/internal/model"
	"commune/internal/pkg"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService() (*UserService, *fakeUserStore) {
	store := newFakeUserStore()
	return NewUserService(store), store
}

func TestUserCreateAdminRules(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	// a regular actor cannot mint admins
	_, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{
		Username: "boss", Password: "secret1", Role: model.RoleAdmin,
	})
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Empty(t, store.users)

	// an admin can
	created, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleAdmin}, UserInput{
		Username: "boss", Password: "secret1", Role: model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, created.Role)
}

func TestUserCreateDefaultsAndConflict(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	actor := model.Actor{ID: 1, Role: model.RoleUser}

	created, err := svc.Create(ctx, actor, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, created.Role)
	assert.NotEqual(t, "secret1", created.HashedPassword)
	assert.True(t, pkg.VerifyPassword("secret1", created.HashedPassword))

	_, err = svc.Create(ctx, actor, UserInput{Username: "alice", Password: "other66"})
	assert.True(t, apperr.IsConflict(err))
}

func TestUserUpdatePermissions(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	target, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// a stranger cannot touch the account
	_, err = svc.Update(ctx, model.Actor{ID: 99, Role: model.RoleUser}, target.ID, UserUpdate{Username: strPtr("mallory")})
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Equal(t, "alice", store.users[target.ID].Username)

	// the owner can
	updated, err := svc.Update(ctx, model.Actor{ID: target.ID, Role: model.RoleUser}, target.ID, UserUpdate{Username: strPtr("alice2")})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	// so can an admin
	_, err = svc.Update(ctx, model.Actor{ID: 50, Role: model.RoleAdmin}, target.ID, UserUpdate{AvatarURL: strPtr("http://a/b.png")})
	require.NoError(t, err)
}

func TestUserUpdateEmptyAndConflict(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()
	actor := model.Actor{ID: 1, Role: model.RoleUser}

	alice, err := svc.Create(ctx, actor, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, actor, UserInput{Username: "bob", Password: "secret1"})
	require.NoError(t, err)

	self := model.Actor{ID: alice.ID, Role: model.RoleUser}

	_, err = svc.Update(ctx, self, alice.ID, UserUpdate{})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))

	_, err = svc.Update(ctx, self, alice.ID, UserUpdate{Username: strPtr("bob")})
	assert.True(t, apperr.IsConflict(err))
}

func TestUserSelfPromotionDenied(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	alice, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	self := model.Actor{ID: alice.ID, Role: model.RoleUser}
	_, err = svc.Update(ctx, self, alice.ID, UserUpdate{Role: strPtr(model.RoleAdmin)})
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Equal(t, model.RoleUser, store.users[alice.ID].Role)

	admin := model.Actor{ID: 50, Role: model.RoleAdmin}
	_, err = svc.Update(ctx, admin, alice.ID, UserUpdate{Role: strPtr(model.RoleAdmin)})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, store.users[alice.ID].Role)
}

func TestUserDelete(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	alice, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	// stranger denied, record intact
	err = svc.Delete(ctx, model.Actor{ID: 99, Role: model.RoleUser}, alice.ID)
	assert.Equal(t, apperr.KindPermissionDenied, apperr.KindOf(err))
	assert.Len(t, store.users, 1)

	// the id-based self check allows the owner
	require.NoError(t, svc.Delete(ctx, model.Actor{ID: alice.ID, Role: model.RoleUser}, alice.ID))
	assert.Empty(t, store.users)

	err = svc.Delete(ctx, model.Actor{ID: alice.ID, Role: model.RoleUser}, alice.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserSubscriptions(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	alice, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	store.subscriptions[alice.ID] = []model.Community{{ID: 3, Name: "general"}}

	list, err := svc.GetSubscriptions(ctx, alice.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "general", list[0].Name)

	_, err = svc.GetSubscriptions(ctx, 404, 20, 0)
	assert.True(t, apperr.IsNotFound(err))

	list, err = svc.GetSubscriptionsByUsername(ctx, "alice", 20, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.GetSubscriptionsByUsername(ctx, "nobody", 20, 0)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUserSubscriptionsByUsernameLogsOnce(t *testing.T) {
	svc, store := newUserService()

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	alice, err := svc.Create(ctx, model.Actor{ID: 1, Role: model.RoleUser}, UserInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	store.subscriptions[alice.ID] = []model.Community{{ID: 3, Name: "general"}}

	buf.Reset()
	_, err = svc.GetSubscriptionsByUsername(ctx, "alice", 20, 0)
	require.NoError(t, err)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "user_subscribes_fetched_from_db"))
	assert.NotContains(t, out, "user_fetched_from_db")
}
