package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type GalleryStore struct {
	db *sqlx.DB
}

func (s *GalleryStore) Create(ctx context.Context, g *storage.GalleryItem) (*storage.GalleryItem, error) {
	if g == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO gallery_items (id, title, caption, media_ref, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING *`

	var out storage.GalleryItem
	if err := s.db.GetContext(ctx, &out, query,
		g.ID, g.Title, g.Caption, g.MediaRef,
		g.CreatedBy, g.UpdatedBy, g.CreatedAt, g.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("cannot create gallery item %q: %w", g.Title, mapSqlError(err))
	}
	return &out, nil
}

func (s *GalleryStore) Get(ctx context.Context, id uuid.UUID) (*storage.GalleryItem, error) {
	query := `SELECT * FROM gallery_items
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var out storage.GalleryItem
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, fmt.Errorf("cannot find gallery item %s: %w", id, mapSqlError(err))
	}
	return &out, nil
}

func (s *GalleryStore) Update(ctx context.Context, g *storage.GalleryItem) (*storage.GalleryItem, error) {
	if g == nil {
		return nil, errNilRecord
	}

	query := `UPDATE gallery_items
		SET title = ?, caption = ?, media_ref = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING *`

	var out storage.GalleryItem
	if err := s.db.GetContext(ctx, &out, query,
		g.Title, g.Caption, g.MediaRef, g.UpdatedBy, g.UpdatedAt, g.ID,
	); err != nil {
		return nil, fmt.Errorf("cannot update gallery item %s: %w", g.ID, mapSqlError(err))
	}
	return &out, nil
}

func (s *GalleryStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE gallery_items SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete gallery item %s: %w", id, mapSqlError(err))
	}
	return rowsAffectedOrNotFound(result, nil)
}

func (s *GalleryStore) List(ctx context.Context) ([]*storage.GalleryItem, error) {
	query := `SELECT * FROM gallery_items
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`

	var out []*storage.GalleryItem
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", mapSqlError(err))
	}
	return out, nil
}
