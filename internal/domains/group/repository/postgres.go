package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/cache"
	pkgdb "blog-backend/pkg/database"
)

const (
	cacheKeyBySlug = "group:slug:%s"
	cacheKeyList   = "group:list"
)

type postgresRepository struct {
	pool     *pgxpool.Pool
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache, cacheTTL time.Duration) group.Repository {
	return &postgresRepository{pool: pool, cache: cache, cacheTTL: cacheTTL}
}

const insertGroupQuery = `
	INSERT INTO groups (title, slug, description)
	VALUES ($1, $2, $3)
	RETURNING id, created_at
`

func (r *postgresRepository) Create(ctx context.Context, g *group.Group) error {
	err := r.pool.QueryRow(ctx, insertGroupQuery, g.Title, g.Slug, g.Description).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_groups_slug") {
			return group.ErrDuplicateSlug
		}
		return fmt.Errorf("insert group: %w", err)
	}

	r.invalidate(ctx, cacheKeyList)
	return nil
}

func (r *postgresRepository) CreateMany(ctx context.Context, groups []*group.Group) error {
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, g := range groups {
			if err := tx.QueryRow(ctx, insertGroupQuery, g.Title, g.Slug, g.Description).Scan(&g.ID, &g.CreatedAt); err != nil {
				if database.IsUniqueViolation(err, "uq_groups_slug") {
					return fmt.Errorf("slug %q: %w", g.Slug, group.ErrDuplicateSlug)
				}
				return fmt.Errorf("insert group %q: %w", g.Slug, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidate(ctx, cacheKeyList)
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*group.Group, error) {
	query := `SELECT id, title, slug, description, created_at FROM groups WHERE id = $1`
	return scanGroup(r.pool.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindBySlug(ctx context.Context, slug string) (*group.Group, error) {
	cacheKey := fmt.Sprintf(cacheKeyBySlug, slug)

	var cached group.Group
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	query := `SELECT id, title, slug, description, created_at FROM groups WHERE slug = $1`
	g, err := scanGroup(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, g, r.cacheTTL); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Failed to cache group")
	}
	return g, nil
}

func (r *postgresRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check group slug: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) List(ctx context.Context) ([]group.Group, error) {
	var cached []group.Group
	if found, err := r.cache.Get(ctx, cacheKeyList, &cached); err == nil && found {
		return cached, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, title, slug, description, created_at FROM groups ORDER BY title, id`)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]group.Group, 0)
	for rows.Next() {
		var g group.Group
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKeyList, groups, r.cacheTTL); err != nil {
		log.Warn().Err(err).Msg("Failed to cache group list")
	}
	return groups, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	var slug string
	err := r.pool.QueryRow(ctx, `DELETE FROM groups WHERE id = $1 RETURNING slug`, id).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return group.ErrGroupNotFound
		}
		return fmt.Errorf("delete group: %w", err)
	}

	r.invalidate(ctx, fmt.Sprintf(cacheKeyBySlug, slug), cacheKeyList)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate group cache")
	}
}

func scanGroup(row pgx.Row) (*group.Group, error) {
	g := &group.Group{}
	if err := row.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, group.ErrGroupNotFound
		}
		return nil, fmt.Errorf("scan group: %w", err)
	}
	return g, nil
}
