package memstore

import (
	"context"
	"sort"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/post"
)

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, c *comment.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[c.PostID]; !ok {
		return post.ErrPostNotFound
	}

	r.s.nextCommentID++
	c.ID = r.s.nextCommentID
	c.Created = r.s.tick()

	stored := *c
	r.s.comments[c.ID] = &stored
	return nil
}

func (r *commentRepo) ListByPost(_ context.Context, postID int64) ([]comment.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]comment.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			cp := *c
			cp.Author.Username = r.s.usernameLocked(c.Author.ID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *commentRepo) CountByPost(_ context.Context, postID int64) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, c := range r.s.comments {
		if c.PostID == postID {
			n++
		}
	}
	return n, nil
}
