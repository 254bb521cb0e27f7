package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post"
)

type postRepo struct{ s *Store }

func (r *postRepo) Create(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[p.Author.ID]; !ok {
		return post.ErrPostNotFound
	}

	r.s.nextPostID++
	p.ID = r.s.nextPostID
	p.PubDate = r.s.tick()

	stored := *p
	stored.Group = nil
	if p.Image != nil {
		img := *p.Image
		stored.Image = &img
	}
	r.s.posts[p.ID] = &stored
	return nil
}

func (r *postRepo) FindByID(_ context.Context, id int64) (*post.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	out := r.s.hydrateLocked(p)
	return &out, nil
}

func (r *postRepo) Update(_ context.Context, p *post.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[p.ID]
	if !ok {
		return post.ErrPostNotFound
	}
	stored.Text = p.Text
	stored.GroupID = p.GroupID
	return nil
}

func (r *postRepo) SetThumbnail(_ context.Context, id int64, thumbnailURL string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.posts[id]
	if !ok {
		return post.ErrPostNotFound
	}
	if stored.Image != nil {
		stored.Image.ThumbnailURL = thumbnailURL
	}
	return nil
}

func (r *postRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	r.s.deletePostLocked(id)
	return nil
}

func (r *postRepo) CountAll(ctx context.Context) (int64, error) {
	return r.count(func(*post.Post) bool { return true }), nil
}

func (r *postRepo) ListAll(_ context.Context, limit, offset int) ([]post.Post, error) {
	return r.list(func(*post.Post) bool { return true }, limit, offset), nil
}

func (r *postRepo) CountByGroup(_ context.Context, groupID int64) (int64, error) {
	return r.count(inGroup(groupID)), nil
}

func (r *postRepo) ListByGroup(_ context.Context, groupID int64, limit, offset int) ([]post.Post, error) {
	return r.list(inGroup(groupID), limit, offset), nil
}

func (r *postRepo) CountByAuthor(_ context.Context, authorID uuid.UUID) (int64, error) {
	return r.count(byAuthor(authorID)), nil
}

func (r *postRepo) ListByAuthor(_ context.Context, authorID uuid.UUID, limit, offset int) ([]post.Post, error) {
	return r.list(byAuthor(authorID), limit, offset), nil
}

func (r *postRepo) CountByFollowedAuthors(_ context.Context, followerID uuid.UUID) (int64, error) {
	return r.count(r.followedBy(followerID)), nil
}

func (r *postRepo) ListByFollowedAuthors(_ context.Context, followerID uuid.UUID, limit, offset int) ([]post.Post, error) {
	return r.list(r.followedBy(followerID), limit, offset), nil
}

type postFilter func(*post.Post) bool

func inGroup(groupID int64) postFilter {
	return func(p *post.Post) bool { return p.GroupID != nil && *p.GroupID == groupID }
}

func byAuthor(authorID uuid.UUID) postFilter {
	return func(p *post.Post) bool { return p.Author.ID == authorID }
}

// followedBy is evaluated with mu held by count/list.
func (r *postRepo) followedBy(followerID uuid.UUID) postFilter {
	return func(p *post.Post) bool {
		for _, f := range r.s.follows {
			if f.UserID == followerID && f.AuthorID == p.Author.ID {
				return true
			}
		}
		return false
	}
}

func (r *postRepo) count(match postFilter) int64 {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, p := range r.s.posts {
		if match(p) {
			n++
		}
	}
	return n
}

func (r *postRepo) list(match postFilter, limit, offset int) []post.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	matched := make([]*post.Post, 0)
	for _, p := range r.s.posts {
		if match(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PubDate.Equal(matched[j].PubDate) {
			return matched[i].PubDate.After(matched[j].PubDate)
		}
		return matched[i].ID > matched[j].ID
	})

	out := make([]post.Post, 0, limit)
	for i := offset; i < len(matched) && len(out) < limit; i++ {
		out = append(out, r.s.hydrateLocked(matched[i]))
	}
	return out
}

// hydrateLocked returns a copy with author username and group ref joined in.
func (s *Store) hydrateLocked(p *post.Post) post.Post {
	out := *p
	out.Author.Username = s.usernameLocked(p.Author.ID)
	out.Group = nil
	if p.GroupID != nil {
		id := *p.GroupID
		out.GroupID = &id
		if g, ok := s.groups[id]; ok {
			ref := g.Ref()
			out.Group = &ref
		}
	}
	if p.Image != nil {
		img := *p.Image
		out.Image = &img
	}
	return out
}

func (s *Store) deletePostLocked(id int64) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostID == id {
			delete(s.comments, cid)
		}
	}
}
