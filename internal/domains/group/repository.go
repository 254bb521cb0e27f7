package group

import "context"

type Repository interface {
	// Create returns ErrDuplicateSlug on a slug collision.
	Create(ctx context.Context, g *Group) error

	// CreateMany inserts every group or none.
	CreateMany(ctx context.Context, groups []*Group) error

	FindByID(ctx context.Context, id int64) (*Group, error)
	FindBySlug(ctx context.Context, slug string) (*Group, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]Group, error)

	// Delete removes the group; its posts keep existing without a group.
	Delete(ctx context.Context, id int64) error
}
