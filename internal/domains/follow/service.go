package follow

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	// Follow is a no-op for a self follow or an existing edge.
	Follow(ctx context.Context, followerID uuid.UUID, authorUsername string) error
	// Unfollow is a no-op when no edge exists.
	Unfollow(ctx context.Context, followerID uuid.UUID, authorUsername string) error
	IsFollowing(ctx context.Context, followerID, authorID uuid.UUID) (bool, error)
	Stats(ctx context.Context, userID uuid.UUID) (Stats, error)
}
