// Package memstore provides in-memory implementations of the repositories,
// object storage and task queue for tests. Cascades follow the SQL schema.
package memstore

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/follow"
	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
	"blog-backend/internal/domains/user"
)

// Store holds every table. Timestamps advance by one second per insert so
// that newest-first ordering is deterministic.
type Store struct {
	mu sync.RWMutex

	clock time.Time

	users    map[uuid.UUID]*user.User
	groups   map[int64]*group.Group
	posts    map[int64]*post.Post
	comments map[int64]*comment.Comment
	follows  map[int64]*follow.Follow

	nextGroupID   int64
	nextPostID    int64
	nextCommentID int64
	nextFollowID  int64
}

func New() *Store {
	return &Store{
		clock:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		users:    map[uuid.UUID]*user.User{},
		groups:   map[int64]*group.Group{},
		posts:    map[int64]*post.Post{},
		comments: map[int64]*comment.Comment{},
		follows:  map[int64]*follow.Follow{},
	}
}

// tick must be called with mu held.
func (s *Store) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) Users() user.Repository       { return &userRepo{s} }
func (s *Store) Groups() group.Repository     { return &groupRepo{s} }
func (s *Store) Posts() post.Repository       { return &postRepo{s} }
func (s *Store) Comments() comment.Repository { return &commentRepo{s} }
func (s *Store) Follows() follow.Repository   { return &followRepo{s} }

// PostCount and FollowCount let tests assert on raw table sizes.
func (s *Store) PostCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

func (s *Store) FollowCount(userID, authorID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			n++
		}
	}
	return n
}
