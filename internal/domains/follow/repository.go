package follow

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create stores the edge and reports whether it was new.
	Create(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	CountFollowers(ctx context.Context, authorID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}
