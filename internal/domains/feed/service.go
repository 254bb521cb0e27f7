package feed

import (
	"context"

	"github.com/google/uuid"
)

// Service assembles the read-only pages. page is the raw ?page= value;
// viewer is nil for anonymous callers.
type Service interface {
	Index(ctx context.Context, page string) (*IndexView, error)
	Group(ctx context.Context, slug, page string) (*GroupView, error)
	Profile(ctx context.Context, username, page string, viewer *uuid.UUID) (*ProfileView, error)
	Follow(ctx context.Context, viewer uuid.UUID, page string) (*FollowView, error)
	PostDetail(ctx context.Context, username string, postID int64, viewer *uuid.UUID) (*PostView, error)
}
