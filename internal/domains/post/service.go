package post

import (
	"context"
	"io"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, author Author, req CreatePostRequest) (*Post, error)

	// Get returns the post only when it belongs to username.
	Get(ctx context.Context, username string, postID int64) (*Post, error)

	// GetForEdit additionally requires editorID to be the author.
	GetForEdit(ctx context.Context, editorID uuid.UUID, username string, postID int64) (*Post, error)
	Update(ctx context.Context, editorID uuid.UUID, username string, postID int64, req UpdatePostRequest) (*Post, error)

	Delete(ctx context.Context, postID int64) error

	// GenerateThumbnail and DeleteImages run in the worker.
	GenerateThumbnail(ctx context.Context, postID int64, imageKey string) error
	DeleteImages(ctx context.Context, prefix string) error

	// Export writes every post to an xlsx workbook and returns the row count.
	Export(ctx context.Context, w io.Writer) (int, error)
}
