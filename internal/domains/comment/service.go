package comment

import (
	"context"

	"blog-backend/internal/domains/post"
)

type Service interface {
	// Add comments on the post identified by username and postID.
	Add(ctx context.Context, author post.Author, username string, postID int64, req CreateCommentRequest) (*Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]Comment, error)
}
