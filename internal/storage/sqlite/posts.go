package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type BlogPostStore struct {
	db *sqlx.DB
}

func (s *BlogPostStore) Create(ctx context.Context, b *storage.BlogPost) (*storage.BlogPost, error) {
	if b == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO blog_posts (id, title, excerpt, body, media_ref, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING *`

	var out storage.BlogPost
	if err := s.db.GetContext(ctx, &out, query,
		b.ID, b.Title, b.Excerpt, b.Body, b.MediaRef,
		b.CreatedBy, b.UpdatedBy, b.CreatedAt, b.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("cannot create blog post %q: %w", b.Title, mapSqlError(err))
	}
	return &out, nil
}

func (s *BlogPostStore) Get(ctx context.Context, id uuid.UUID) (*storage.BlogPost, error) {
	query := `SELECT * FROM blog_posts
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var out storage.BlogPost
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, fmt.Errorf("cannot find blog post %s: %w", id, mapSqlError(err))
	}
	return &out, nil
}

func (s *BlogPostStore) Update(ctx context.Context, b *storage.BlogPost) (*storage.BlogPost, error) {
	if b == nil {
		return nil, errNilRecord
	}

	query := `UPDATE blog_posts
		SET title = ?, excerpt = ?, body = ?, media_ref = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING *`

	var out storage.BlogPost
	if err := s.db.GetContext(ctx, &out, query,
		b.Title, b.Excerpt, b.Body, b.MediaRef, b.UpdatedBy, b.UpdatedAt, b.ID,
	); err != nil {
		return nil, fmt.Errorf("cannot update blog post %s: %w", b.ID, mapSqlError(err))
	}
	return &out, nil
}

func (s *BlogPostStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE blog_posts SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete blog post %s: %w", id, mapSqlError(err))
	}
	return rowsAffectedOrNotFound(result, nil)
}

func (s *BlogPostStore) List(ctx context.Context) ([]*storage.BlogPost, error) {
	query := `SELECT * FROM blog_posts
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`

	var out []*storage.BlogPost
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", mapSqlError(err))
	}
	return out, nil
}
