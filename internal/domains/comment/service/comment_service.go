package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/comment"
	"blog-backend/internal/domains/post"
)

type commentService struct {
	repo  comment.Repository
	posts post.Service
}

func NewCommentService(repo comment.Repository, posts post.Service) comment.Service {
	return &commentService{repo: repo, posts: posts}
}

func (s *commentService) Add(
	ctx context.Context,
	author post.Author,
	username string,
	postID int64,
	req comment.CreateCommentRequest,
) (*comment.Comment, error) {
	p, err := s.posts.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &comment.Comment{
		PostID: p.ID,
		Author: author,
		Text:   req.Text,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	log.Info().Int64("post_id", p.ID).Int64("comment_id", c.ID).Str("author", author.Username).Msg("Comment added")
	return c, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID int64) ([]comment.Comment, error) {
	comments, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return comments, nil
}
