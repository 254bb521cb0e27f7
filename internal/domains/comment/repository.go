package comment

import "context"

type Repository interface {
	// Create assigns ID and Created.
	Create(ctx context.Context, c *Comment) error
	// ListByPost returns comments oldest first.
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}
