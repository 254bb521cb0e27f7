package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/shared/utils"
)

type groupService struct {
	repo group.Repository
}

func NewGroupService(repo group.Repository) group.Service {
	return &groupService{repo: repo}
}

// normalize trims input and derives a slug from the title when none is given.
func normalize(req group.CreateGroupRequest) group.CreateGroupRequest {
	req.Title = strings.TrimSpace(req.Title)
	req.Slug = strings.TrimSpace(req.Slug)
	req.Description = strings.TrimSpace(req.Description)

	if req.Slug == "" {
		req.Slug = utils.TruncateSlug(utils.GenerateSlug(req.Title), group.MaxSlugLength)
	}
	return req
}

func (s *groupService) Create(ctx context.Context, req group.CreateGroupRequest) (*group.Group, error) {
	req = normalize(req)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g := &group.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		if errors.Is(err, group.ErrDuplicateSlug) {
			return nil, err
		}
		return nil, fmt.Errorf("create group: %w", err)
	}

	log.Info().Int64("group_id", g.ID).Str("slug", g.Slug).Msg("Group created")
	return g, nil
}

func (s *groupService) GetByID(ctx context.Context, id int64) (*group.Group, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *groupService) GetBySlug(ctx context.Context, slug string) (*group.Group, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *groupService) List(ctx context.Context) ([]group.Group, error) {
	groups, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *groupService) Delete(ctx context.Context, slug string) error {
	g, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, g.ID); err != nil {
		return fmt.Errorf("delete group %s: %w", slug, err)
	}

	log.Info().Str("slug", slug).Msg("Group deleted")
	return nil
}
