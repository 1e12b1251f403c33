package service

import (
	"context"
	"errors"

	"commune/internal/model"
)

// In-memory stands-ins for the persistence and cache gateways. FindByID
// returns copies so tests can assert that a rejected mutation left the stored
// record untouched.

type fakeCache struct {
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	val, ok := c.data[key]
	return val, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	if c.delErr != nil {
		return c.delErr
	}
	delete(c.data, key)
	return nil
}

type fakeCommunityStore struct {
	nextID      uint64
	communities map[uint64]model.Community
	followers   map[uint64]map[uint64]bool
	posts       map[uint64]model.Post
	outbox      []model.FollowerOutbox
}

func newFakeCommunityStore() *fakeCommunityStore {
	return &fakeCommunityStore{
		communities: map[uint64]model.Community{},
		followers:   map[uint64]map[uint64]bool{},
		posts:       map[uint64]model.Post{},
	}
}

func (s *fakeCommunityStore) Create(_ context.Context, c *model.Community) error {
	s.nextID++
	c.ID = s.nextID
	s.communities[c.ID] = *c
	return nil
}

func (s *fakeCommunityStore) FindByID(_ context.Context, id uint64) (*model.Community, error) {
	c, ok := s.communities[id]
	if !ok {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (s *fakeCommunityStore) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, c := range s.communities {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeCommunityStore) List(_ context.Context, limit, offset int) ([]model.Community, error) {
	var list []model.Community
	for _, c := range s.communities {
		list = append(list, c)
	}
	return list, nil
}

func (s *fakeCommunityStore) Update(_ context.Context, c *model.Community) error {
	if _, ok := s.communities[c.ID]; !ok {
		return errors.New("community missing")
	}
	s.communities[c.ID] = *c
	return nil
}

func (s *fakeCommunityStore) Delete(_ context.Context, c *model.Community) error {
	delete(s.communities, c.ID)
	delete(s.followers, c.ID)
	for id, p := range s.posts {
		if p.CommunityID == c.ID {
			delete(s.posts, id)
		}
	}
	return nil
}

func (s *fakeCommunityStore) ListFollowers(_ context.Context, communityID uint64, limit, offset int) ([]model.User, error) {
	var list []model.User
	for uid := range s.followers[communityID] {
		list = append(list, model.User{ID: uid})
	}
	return list, nil
}

func (s *fakeCommunityStore) IsFollower(_ context.Context, communityID, userID uint64) (bool, error) {
	return s.followers[communityID][userID], nil
}

func (s *fakeCommunityStore) AddFollower(_ context.Context, communityID, userID uint64) error {
	if s.followers[communityID] == nil {
		s.followers[communityID] = map[uint64]bool{}
	}
	s.followers[communityID][userID] = true
	s.outbox = append(s.outbox, model.FollowerOutbox{
		EventType:   model.OutboxEventSubscribe,
		UserID:      userID,
		CommunityID: communityID,
	})
	return nil
}

func (s *fakeCommunityStore) RemoveFollower(_ context.Context, communityID, userID uint64) error {
	delete(s.followers[communityID], userID)
	s.outbox = append(s.outbox, model.FollowerOutbox{
		EventType:   model.OutboxEventUnsubscribe,
		UserID:      userID,
		CommunityID: communityID,
	})
	return nil
}

func (s *fakeCommunityStore) ListPosts(_ context.Context, communityID uint64, limit, offset int) ([]model.Post, error) {
	var list []model.Post
	for _, p := range s.posts {
		if p.CommunityID == communityID {
			list = append(list, p)
		}
	}
	return list, nil
}

type fakePostStore struct {
	nextID uint64
	posts  map[uint64]model.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[uint64]model.Post{}}
}

func (s *fakePostStore) Create(_ context.Context, p *model.Post) error {
	s.nextID++
	p.ID = s.nextID
	s.posts[p.ID] = *p
	return nil
}

func (s *fakePostStore) FindByID(_ context.Context, id uint64) (*model.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	copied := p
	return &copied, nil
}

func (s *fakePostStore) List(_ context.Context, filter model.PostFilter, limit, offset int) ([]model.Post, error) {
	var list []model.Post
	for _, p := range s.posts {
		if filter.OwnerID != nil && p.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.CommunityID != nil && p.CommunityID != *filter.CommunityID {
			continue
		}
		list = append(list, p)
	}
	return list, nil
}

func (s *fakePostStore) Update(_ context.Context, p *model.Post) error {
	if _, ok := s.posts[p.ID]; !ok {
		return errors.New("post missing")
	}
	s.posts[p.ID] = *p
	return nil
}

func (s *fakePostStore) Delete(_ context.Context, p *model.Post) error {
	delete(s.posts, p.ID)
	return nil
}

type fakeUserStore struct {
	nextID        uint64
	users         map[uint64]model.User
	subscriptions map[uint64][]model.Community
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:         map[uint64]model.User{},
		subscriptions: map[uint64][]model.Community{},
	}
}

func (s *fakeUserStore) Create(_ context.Context, u *model.User) error {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := u
	return &copied, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) List(_ context.Context, limit, offset int) ([]model.User, error) {
	var list []model.User
	for _, u := range s.users {
		list = append(list, u)
	}
	return list, nil
}

func (s *fakeUserStore) Update(_ context.Context, u *model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return errors.New("user missing")
	}
	s.users[u.ID] = *u
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, u *model.User) error {
	delete(s.users, u.ID)
	return nil
}

func (s *fakeUserStore) ListSubscriptions(_ context.Context, userID uint64, limit, offset int) ([]model.Community, error) {
	return s.subscriptions[userID], nil
}

type fakeCommentStore struct {
	nextID   uint64
	comments map[uint64]model.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: map[uint64]model.Comment{}}
}

func (s *fakeCommentStore) Create(_ context.Context, c *model.Comment) error {
	s.nextID++
	c.ID = s.nextID
	s.comments[c.ID] = *c
	return nil
}

func (s *fakeCommentStore) FindByID(_ context.Context, id uint64) (*model.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return nil, nil
	}
	copied := c
	return &copied, nil
}

func (s *fakeCommentStore) ListByPost(_ context.Context, postID uint64, limit, offset int) ([]model.Comment, error) {
	var list []model.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (s *fakeCommentStore) Update(_ context.Context, c *model.Comment) error {
	if _, ok := s.comments[c.ID]; !ok {
		return errors.New("comment missing")
	}
	s.comments[c.ID] = *c
	return nil
}

func (s *fakeCommentStore) Delete(_ context.Context, c *model.Comment) error {
	delete(s.comments, c.ID)
	return nil
}

type fakeOutboxStore struct {
	pending []model.FollowerOutbox
	sent    []uint64
	failed  []uint64
}

func (s *fakeOutboxStore) ListPending(_ context.Context, batchSize int) ([]model.FollowerOutbox, error) {
	if len(s.pending) > batchSize {
		return s.pending[:batchSize], nil
	}
	return s.pending, nil
}

func (s *fakeOutboxStore) MarkSent(_ context.Context, id uint64) error {
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeOutboxStore) MarkFailed(_ context.Context, id uint64) error {
	s.failed = append(s.failed, id)
	return nil
}
