package memstore

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/follow"
)

type followRepo struct{ s *Store }

// Create mirrors the UNIQUE and CHECK constraints of the follows table.
func (r *followRepo) Create(_ context.Context, userID, authorID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if userID == authorID {
		return false, follow.ErrSelfFollow
	}
	if r.s.findFollowLocked(userID, authorID) != 0 {
		return false, nil
	}

	r.s.nextFollowID++
	r.s.follows[r.s.nextFollowID] = &follow.Follow{
		ID:        r.s.nextFollowID,
		UserID:    userID,
		AuthorID:  authorID,
		CreatedAt: r.s.tick(),
	}
	return true, nil
}

func (r *followRepo) Delete(_ context.Context, userID, authorID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id := r.s.findFollowLocked(userID, authorID)
	if id == 0 {
		return false, nil
	}
	delete(r.s.follows, id)
	return true, nil
}

func (r *followRepo) Exists(_ context.Context, userID, authorID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.findFollowLocked(userID, authorID) != 0, nil
}

func (r *followRepo) CountFollowers(_ context.Context, authorID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, f := range r.s.follows {
		if f.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r *followRepo) CountFollowing(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, f := range r.s.follows {
		if f.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *Store) findFollowLocked(userID, authorID uuid.UUID) int64 {
	for id, f := range s.follows {
		if f.UserID == userID && f.AuthorID == authorID {
			return id
		}
	}
	return 0
}
