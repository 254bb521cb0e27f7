package memstore

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/user"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.s.tick()

	stored := *u
	r.s.users[u.ID] = &stored
	return nil
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	u, err := r.FindCredentials(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.FromDTO(u.ToDTO()), nil
}

func (r *userRepo) FindCredentials(_ context.Context, username string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *userRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.s.users, id)

	for pid, p := range r.s.posts {
		if p.Author.ID == id {
			r.s.deletePostLocked(pid)
		}
	}
	for cid, c := range r.s.comments {
		if c.Author.ID == id {
			delete(r.s.comments, cid)
		}
	}
	for fid, f := range r.s.follows {
		if f.UserID == id || f.AuthorID == id {
			delete(r.s.follows, fid)
		}
	}
	return nil
}

// usernameLocked must be called with mu held.
func (s *Store) usernameLocked(id uuid.UUID) string {
	if u, ok := s.users[id]; ok {
		return u.Username
	}
	return ""
}
