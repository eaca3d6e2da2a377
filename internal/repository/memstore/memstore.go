// Package memstore is an in-process implementation of the service stores.
// It backs the test suites and STORE=memory development mode.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	m "github.com/stepweaver/mern-blog-server/internal/models"
	"github.com/stepweaver/mern-blog-server/internal/repository"
)

type Store struct {
	mu         sync.Mutex
	users      map[bson.ObjectID]*m.User
	posts      map[bson.ObjectID]*m.Post
	comments   map[bson.ObjectID]*m.Comment
	categories map[bson.ObjectID]*m.Category
	messages   []m.EmailMessage

	// Now stamps createdAt/updatedAt; defaults to time.Now.
	Now func() time.Time
}

func New() *Store {
	return &Store{
		users:      map[bson.ObjectID]*m.User{},
		posts:      map[bson.ObjectID]*m.Post{},
		comments:   map[bson.ObjectID]*m.Comment{},
		categories: map[bson.ObjectID]*m.Category{},
	}
}

// stored timestamps keep millisecond precision, like BSON dates
func (s *Store) now() time.Time {
	f := s.Now
	if f == nil {
		f = time.Now
	}
	return f().UTC().Truncate(time.Millisecond)
}

func ids(in []bson.ObjectID) []bson.ObjectID {
	out := make([]bson.ObjectID, len(in))
	copy(out, in)
	return out
}

func addID(list []bson.ObjectID, id bson.ObjectID) []bson.ObjectID {
	for _, v := range list {
		if v == id {
			return list
		}
	}
	return append(list, id)
}

func has(list []bson.ObjectID, id bson.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func cloneUser(u *m.User) *m.User {
	c := *u
	c.ViewedBy = ids(u.ViewedBy)
	c.Followers = ids(u.Followers)
	c.Following = ids(u.Following)
	return &c
}

func clonePost(p *m.Post) *m.Post {
	c := *p
	c.Likes = ids(p.Likes)
	c.UnLikes = ids(p.UnLikes)
	return &c
}

// newestFirst orders by createdAt then _id, both descending.
func newestFirst(ai, bi time.Time, aid, bid bson.ObjectID) bool {
	if !ai.Equal(bi) {
		return ai.After(bi)
	}
	return aid.Hex() > bid.Hex()
}

// before reports whether (t,id) sorts after the cursor (ct,cid) in a newest-first listing.
func before(t time.Time, id bson.ObjectID, ct *time.Time, cid bson.ObjectID) bool {
	if ct == nil {
		return true
	}
	if t.Before(*ct) {
		return true
	}
	return t.Equal(*ct) && id.Hex() < cid.Hex()
}

// ---- users ----

func (s *Store) CreateUser(_ context.Context, u *m.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = bson.NewObjectID()
	}
	now := s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = cloneUser(u)
	return nil
}

func (s *Store) FindUserByID(_ context.Context, id bson.ObjectID) (*m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindUsersByIDs(_ context.Context, list []bson.ObjectID) ([]m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]m.User, 0, len(list))
	for _, id := range list {
		if u, ok := s.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (s *Store) ListUsersWithPosts(_ context.Context) ([]m.UserWithPosts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]m.UserWithPosts, 0, len(s.users))
	for _, u := range s.users {
		row := m.UserWithPosts{User: *cloneUser(u), Posts: []m.Post{}}
		for _, p := range s.posts {
			if p.Author == u.ID {
				row.Posts = append(row.Posts, *clonePost(p))
			}
		}
		sort.Slice(row.Posts, func(i, j int) bool {
			return newestFirst(row.Posts[i].CreatedAt, row.Posts[j].CreatedAt, row.Posts[i].ID, row.Posts[j].ID)
		})
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) UpdateUserProfile(_ context.Context, id bson.ObjectID, upd m.ProfileUpdate) (*m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Email != nil {
		for oid, other := range s.users {
			if oid != id && other.Email == *upd.Email {
				return nil, repository.ErrDuplicate
			}
		}
		u.Email = *upd.Email
	}
	if upd.FirstName != nil {
		u.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		u.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

// withUser applies fn to the stored user and returns a copy.
func (s *Store) withUser(id bson.ObjectID, fn func(u *m.User)) (*m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	fn(u)
	u.UpdatedAt = s.now()
	return cloneUser(u), nil
}

func (s *Store) UpdatePassword(_ context.Context, id bson.ObjectID, hash string, changedAt time.Time) error {
	_, err := s.withUser(id, func(u *m.User) {
		u.Password = hash
		u.PasswordChangeAt = &changedAt
	})
	return err
}

func (s *Store) SetBlocked(_ context.Context, id bson.ObjectID, blocked bool) (*m.User, error) {
	return s.withUser(id, func(u *m.User) { u.IsBlocked = blocked })
}

func (s *Store) SetAccountVerified(_ context.Context, id bson.ObjectID) (*m.User, error) {
	return s.withUser(id, func(u *m.User) { u.IsAccountVerified = true })
}

func (s *Store) SetProfilePhoto(_ context.Context, id bson.ObjectID, url string) (*m.User, error) {
	return s.withUser(id, func(u *m.User) { u.ProfilePhoto = url })
}

func (s *Store) IncPostCount(_ context.Context, id bson.ObjectID, delta int) error {
	_, err := s.withUser(id, func(u *m.User) { u.PostCount += delta })
	return err
}

func (s *Store) SetToken(_ context.Context, id bson.ObjectID, p m.TokenPurpose, hash string, expires time.Time) error {
	_, err := s.withUser(id, func(u *m.User) { u.SetToken(p, hash, &expires) })
	return err
}

func (s *Store) ClearToken(_ context.Context, id bson.ObjectID, p m.TokenPurpose) error {
	_, err := s.withUser(id, func(u *m.User) { u.SetToken(p, "", nil) })
	return err
}

func (s *Store) ConsumeToken(_ context.Context, p m.TokenPurpose, hash string, now time.Time) (*m.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		h, exp := u.Token(p)
		if h == "" || h != hash || exp == nil || !exp.After(now) {
			continue
		}
		u.SetToken(p, "", nil)
		u.UpdatedAt = s.now()
		return cloneUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (s *Store) AddViewer(_ context.Context, ownerID, viewerID bson.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[ownerID]
	if !ok {
		return false, repository.ErrNotFound
	}
	if has(u.ViewedBy, viewerID) {
		return false, nil
	}
	u.ViewedBy = append(u.ViewedBy, viewerID)
	u.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) AddFollow(_ context.Context, followerID, targetID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	target, ok := s.users[targetID]
	if !ok {
		return repository.ErrNotFound
	}
	follower, ok := s.users[followerID]
	if !ok {
		return repository.ErrNotFound
	}
	if has(target.Followers, followerID) {
		return repository.ErrDuplicate
	}
	now := s.now()
	target.Followers = addID(target.Followers, followerID)
	target.IsFollowing = true
	target.UpdatedAt = now
	follower.Following = addID(follower.Following, targetID)
	follower.UpdatedAt = now
	return nil
}

func (s *Store) RemoveFollow(_ context.Context, followerID, targetID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if target, ok := s.users[targetID]; ok {
		target.Followers = m.RemoveID(target.Followers, followerID)
		target.IsFollowing = false
		target.UpdatedAt = now
	}
	if follower, ok := s.users[followerID]; ok {
		follower.Following = m.RemoveID(follower.Following, targetID)
		follower.UpdatedAt = now
	}
	return nil
}

func (s *Store) PullUserReferences(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		u.Followers = m.RemoveID(u.Followers, id)
		u.Following = m.RemoveID(u.Following, id)
		u.ViewedBy = m.RemoveID(u.ViewedBy, id)
	}
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// ---- posts ----

func (s *Store) CreatePost(_ context.Context, p *m.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = bson.NewObjectID()
	}
	now := s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Likes == nil {
		p.Likes = []bson.ObjectID{}
	}
	if p.UnLikes == nil {
		p.UnLikes = []bson.ObjectID{}
	}
	s.posts[p.ID] = clonePost(p)
	return nil
}

func (s *Store) FindPostByID(_ context.Context, id bson.ObjectID) (*m.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *Store) ListPosts(_ context.Context, q m.PostQuery) ([]m.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []m.Post{}
	for _, p := range s.posts {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if !q.AuthorID.IsZero() && p.Author != q.AuthorID {
			continue
		}
		if !before(p.CreatedAt, p.ID, q.Before, q.BeforeID) {
			continue
		}
		out = append(out, *clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if q.Limit > 0 && int64(len(out)) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *Store) UpdatePostContent(_ context.Context, id bson.ObjectID, upd m.PostUpdate) (*m.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	p.UpdatedAt = s.now()
	return clonePost(p), nil
}

func (s *Store) IncPostViews(_ context.Context, id bson.ObjectID) (*m.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.NumViews++
	return clonePost(p), nil
}

func (s *Store) SwapReaction(_ context.Context, postID, userID bson.ObjectID, from, to m.Reaction) (*m.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[postID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.ReactionOf(userID) != from {
		return nil, repository.ErrStateChanged
	}
	p.ApplyReaction(userID, to)
	p.UpdatedAt = s.now()
	return clonePost(p), nil
}

func (s *Store) DeletePost(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) DeletePostsByAuthor(_ context.Context, authorID bson.ObjectID) ([]bson.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []bson.ObjectID
	for id, p := range s.posts {
		if p.Author == authorID {
			removed = append(removed, id)
			delete(s.posts, id)
		}
	}
	return removed, nil
}

func (s *Store) PullReactionsBy(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		p.Likes = m.RemoveID(p.Likes, userID)
		p.UnLikes = m.RemoveID(p.UnLikes, userID)
	}
	return nil
}

// ---- comments ----

func (s *Store) CreateComment(_ context.Context, c *m.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.comments[c.ID] = &cp
	return nil
}

func (s *Store) FindCommentByID(_ context.Context, id bson.ObjectID) (*m.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) listComments(keep func(c *m.Comment) bool, limit int64) []m.Comment {
	out := []m.Comment{}
	for _, c := range s.comments {
		if keep(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Store) ListComments(_ context.Context) ([]m.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listComments(func(*m.Comment) bool { return true }, 0), nil
}

func (s *Store) ListCommentsByPost(_ context.Context, postID bson.ObjectID, beforeAt *time.Time, beforeID bson.ObjectID, limit int64) ([]m.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listComments(func(c *m.Comment) bool {
		return c.Post == postID && before(c.CreatedAt, c.ID, beforeAt, beforeID)
	}, limit), nil
}

func (s *Store) ListCommentsForPosts(_ context.Context, postIDs []bson.ObjectID) ([]m.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listComments(func(c *m.Comment) bool { return has(postIDs, c.Post) }, 0), nil
}

func (s *Store) UpdateCommentDescription(_ context.Context, id bson.ObjectID, desc string) (*m.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Description = desc
	c.UpdatedAt = s.now()
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteComment(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *Store) DeleteCommentsByPosts(_ context.Context, postIDs []bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.comments {
		if has(postIDs, c.Post) {
			delete(s.comments, id)
		}
	}
	return nil
}

func (s *Store) DeleteCommentsByUser(_ context.Context, userID bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.comments {
		if c.User == userID {
			delete(s.comments, id)
		}
	}
	return nil
}

// ---- categories ----

func (s *Store) CreateCategory(_ context.Context, c *m.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = bson.NewObjectID()
	}
	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	s.categories[c.ID] = &cp
	return nil
}

func (s *Store) FindCategoryByID(_ context.Context, id bson.ObjectID) (*m.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCategories(_ context.Context) ([]m.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]m.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		return newestFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (s *Store) UpdateCategoryTitle(_ context.Context, id bson.ObjectID, title string) (*m.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c.Title = title
	c.UpdatedAt = s.now()
	cp := *c
	return &cp, nil
}

func (s *Store) DeleteCategory(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// ---- email messages ----

func (s *Store) CreateMessage(_ context.Context, msg *m.EmailMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.ID.IsZero() {
		msg.ID = bson.NewObjectID()
	}
	now := s.now()
	msg.CreatedAt, msg.UpdatedAt = now, now
	s.messages = append(s.messages, *msg)
	return nil
}

// Messages returns a copy of every stored email message.
func (s *Store) Messages() []m.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]m.EmailMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
