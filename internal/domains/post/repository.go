package post

import (
	"context"

	"github.com/google/uuid"
)

// Repository exposes one Count/List pair per feed filter. Lists are ordered
// newest first (pub_date DESC, id DESC).
type Repository interface {
	// Create assigns ID and PubDate.
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id int64) (*Post, error)

	// Update writes text and group; pub_date and author never change.
	Update(ctx context.Context, p *Post) error
	SetThumbnail(ctx context.Context, id int64, thumbnailURL string) error
	Delete(ctx context.Context, id int64) error

	CountAll(ctx context.Context) (int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]Post, error)

	CountByGroup(ctx context.Context, groupID int64) (int64, error)
	ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]Post, error)

	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]Post, error)

	CountByFollowedAuthors(ctx context.Context, followerID uuid.UUID) (int64, error)
	ListByFollowedAuthors(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]Post, error)
}
