package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/pkg/cache"
)

const (
	cacheKeyByUsername = "user:username:%s"
	cacheTTL           = 10 * time.Minute
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err, "uq_users_username") {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// FindByUsername caches the public projection only; bcrypt hashes stay in
// Postgres.
func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	cacheKey := fmt.Sprintf(cacheKeyByUsername, username)

	var cached user.UserDTO
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return user.FromDTO(cached), nil
	}

	query := `SELECT id, username, created_at FROM users WHERE username = $1`

	u := &user.User{}
	if err := r.pool.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, u.ToDTO(), cacheTTL); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to cache user")
	}
	return u, nil
}

func (r *postgresRepository) FindCredentials(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var username string
	err := r.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING username`, id).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	if err := r.cache.Delete(ctx, fmt.Sprintf(cacheKeyByUsername, username)); err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to invalidate user cache")
	}
	return nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}
