package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/group"
	"blog-backend/internal/domains/post"
)

const selectPosts = `
	SELECT p.id, p.text, p.pub_date, p.author_id, u.username,
	       p.group_id, g.title, g.slug,
	       p.image_key, p.image_url, p.image_thumbnail_url
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN groups g ON g.id = p.group_id
`

const orderNewestFirst = ` ORDER BY p.pub_date DESC, p.id DESC LIMIT $%d OFFSET $%d`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) post.Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, p *post.Post) error {
	query := `
		INSERT INTO posts (text, author_id, group_id, image_key, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, pub_date
	`

	var imageKey, imageURL *string
	if p.Image != nil {
		imageKey, imageURL = &p.Image.Key, &p.Image.URL
	}

	err := r.pool.QueryRow(ctx, query, p.Text, p.Author.ID, p.GroupID, imageKey, imageURL).Scan(&p.ID, &p.PubDate)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*post.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx, selectPosts+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *post.Post) error {
	tag, err := r.pool.Exec(ctx, `UPDATE posts SET text = $2, group_id = $3 WHERE id = $1`, p.ID, p.Text, p.GroupID)
	if err != nil {
		return fmt.Errorf("update post %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) SetThumbnail(ctx context.Context, id int64, thumbnailURL string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE posts SET image_thumbnail_url = $2 WHERE id = $1`, id, thumbnailURL)
	if err != nil {
		return fmt.Errorf("set thumbnail for post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *postgresRepository) CountAll(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts`)
}

func (r *postgresRepository) ListAll(ctx context.Context, limit, offset int) ([]post.Post, error) {
	return r.list(ctx, selectPosts+fmt.Sprintf(orderNewestFirst, 1, 2), limit, offset)
}

func (r *postgresRepository) CountByGroup(ctx context.Context, groupID int64) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE group_id = $1`, groupID)
}

func (r *postgresRepository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]post.Post, error) {
	query := selectPosts + ` WHERE p.group_id = $1` + fmt.Sprintf(orderNewestFirst, 2, 3)
	return r.list(ctx, query, groupID, limit, offset)
}

func (r *postgresRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID)
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]post.Post, error) {
	query := selectPosts + ` WHERE p.author_id = $1` + fmt.Sprintf(orderNewestFirst, 2, 3)
	return r.list(ctx, query, authorID, limit, offset)
}

const followedAuthors = `SELECT author_id FROM follows WHERE user_id = $1`

func (r *postgresRepository) CountByFollowedAuthors(ctx context.Context, followerID uuid.UUID) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM posts WHERE author_id IN (`+followedAuthors+`)`, followerID)
}

func (r *postgresRepository) ListByFollowedAuthors(ctx context.Context, followerID uuid.UUID, limit, offset int) ([]post.Post, error) {
	query := selectPosts + ` WHERE p.author_id IN (` + followedAuthors + `)` + fmt.Sprintf(orderNewestFirst, 2, 3)
	return r.list(ctx, query, followerID, limit, offset)
}

func (r *postgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...any) ([]post.Post, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]post.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*post.Post, error) {
	var (
		p                          post.Post
		groupTitle, groupSlug      *string
		imageKey, imageURL, thumbs *string
	)

	err := row.Scan(
		&p.ID, &p.Text, &p.PubDate, &p.Author.ID, &p.Author.Username,
		&p.GroupID, &groupTitle, &groupSlug,
		&imageKey, &imageURL, &thumbs,
	)
	if err != nil {
		return nil, err
	}

	if p.GroupID != nil && groupSlug != nil {
		p.Group = &group.Ref{ID: *p.GroupID, Title: deref(groupTitle), Slug: *groupSlug}
	}
	if imageKey != nil {
		p.Image = &post.Image{Key: *imageKey, URL: deref(imageURL), ThumbnailURL: deref(thumbs)}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
