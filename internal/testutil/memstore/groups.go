package memstore

import (
	"context"
	"sort"

	"blog-backend/internal/domains/group"
)

type groupRepo struct{ s *Store }

func (r *groupRepo) Create(_ context.Context, g *group.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertGroupLocked(g)
}

func (r *groupRepo) CreateMany(_ context.Context, groups []*group.Group) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[string]bool{}
	for _, g := range groups {
		if seen[g.Slug] || r.s.slugTakenLocked(g.Slug) {
			return group.ErrDuplicateSlug
		}
		seen[g.Slug] = true
	}
	for _, g := range groups {
		if err := r.s.insertGroupLocked(g); err != nil {
			return err
		}
	}
	return nil
}

func (r *groupRepo) FindByID(_ context.Context, id int64) (*group.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.groups[id]
	if !ok {
		return nil, group.ErrGroupNotFound
	}
	out := *g
	return &out, nil
}

func (r *groupRepo) FindBySlug(_ context.Context, slug string) (*group.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, g := range r.s.groups {
		if g.Slug == slug {
			out := *g
			return &out, nil
		}
	}
	return nil, group.ErrGroupNotFound
}

func (r *groupRepo) ExistsBySlug(_ context.Context, slug string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.slugTakenLocked(slug), nil
}

func (r *groupRepo) List(_ context.Context) ([]group.Group, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]group.Group, 0, len(r.s.groups))
	for _, g := range r.s.groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *groupRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.groups[id]; !ok {
		return group.ErrGroupNotFound
	}
	delete(r.s.groups, id)

	for _, p := range r.s.posts {
		if p.GroupID != nil && *p.GroupID == id {
			p.GroupID = nil
		}
	}
	return nil
}

func (s *Store) insertGroupLocked(g *group.Group) error {
	if s.slugTakenLocked(g.Slug) {
		return group.ErrDuplicateSlug
	}
	s.nextGroupID++
	g.ID = s.nextGroupID
	g.CreatedAt = s.tick()

	stored := *g
	s.groups[g.ID] = &stored
	return nil
}

func (s *Store) slugTakenLocked(slug string) bool {
	for _, g := range s.groups {
		if g.Slug == slug {
			return true
		}
	}
	return false
}
