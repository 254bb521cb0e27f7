package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/follow"
	"blog-backend/internal/infrastructure/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) follow.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO follows (user_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT ON CONSTRAINT uq_follows_user_author DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, userID, authorID)
	if err != nil {
		if database.IsCheckViolation(err, "chk_follows_not_self") {
			return false, follow.ErrSelfFollow
		}
		return false, fmt.Errorf("insert follow: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *postgresRepository) Delete(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM follows WHERE user_id = $1 AND author_id = $2`, userID, authorID)
	if err != nil {
		return false, fmt.Errorf("delete follow: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *postgresRepository) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM follows WHERE user_id = $1 AND author_id = $2)`
	if err := r.pool.QueryRow(ctx, query, userID, authorID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CountFollowers(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE author_id = $1`, authorID)
}

func (r *postgresRepository) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM follows WHERE user_id = $1`, userID)
}

func (r *postgresRepository) count(ctx context.Context, query string, id uuid.UUID) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("count follows: %w", err)
	}
	return n, nil
}
