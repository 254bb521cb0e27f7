package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/follow"
	"blog-backend/internal/domains/user"
)

type followService struct {
	repo  follow.Repository
	users user.Repository
}

func NewFollowService(repo follow.Repository, users user.Repository) follow.Service {
	return &followService{repo: repo, users: users}
}

func (s *followService) Follow(ctx context.Context, followerID uuid.UUID, authorUsername string) error {
	author, err := s.users.FindByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == followerID {
		return nil
	}

	created, err := s.repo.Create(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("follow %s: %w", authorUsername, err)
	}
	if created {
		log.Info().Str("follower_id", followerID.String()).Str("author", authorUsername).Msg("Follow created")
	}
	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID uuid.UUID, authorUsername string) error {
	author, err := s.users.FindByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, followerID, author.ID)
	if err != nil {
		return fmt.Errorf("unfollow %s: %w", authorUsername, err)
	}
	if deleted {
		log.Info().Str("follower_id", followerID.String()).Str("author", authorUsername).Msg("Follow removed")
	}
	return nil
}

func (s *followService) IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	if followerID == authorID {
		return false, nil
	}
	return s.repo.Exists(ctx, followerID, authorID)
}

func (s *followService) Stats(ctx context.Context, userID uuid.UUID) (follow.Stats, error) {
	followers, err := s.repo.CountFollowers(ctx, userID)
	if err != nil {
		return follow.Stats{}, err
	}
	following, err := s.repo.CountFollowing(ctx, userID)
	if err != nil {
		return follow.Stats{}, err
	}
	return follow.Stats{Followers: followers, Following: following}, nil
}
