package group

import (
	"context"
	"io"
)

type Service interface {
	Create(ctx context.Context, req CreateGroupRequest) (*Group, error)
	GetByID(ctx context.Context, id int64) (*Group, error)
	GetBySlug(ctx context.Context, slug string) (*Group, error)
	List(ctx context.Context) ([]Group, error)
	Delete(ctx context.Context, slug string) error

	// Import reads groups from the first sheet of an xlsx workbook with the
	// header row: title, slug, description.
	Import(ctx context.Context, r io.Reader) (*ImportResult, error)
}
