package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type ProductStore struct {
	db *sqlx.DB
}

func (s *ProductStore) Create(ctx context.Context, p *storage.Product) (*storage.Product, error) {
	if p == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO products (id, name, category, description, wholesale_price, retail_price, media_ref, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING *`

	var out storage.Product
	if err := s.db.GetContext(ctx, &out, query,
		p.ID, p.Name, p.Category, p.Description, p.WholesalePrice, p.RetailPrice,
		p.MediaRef, p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("cannot create product %q: %w", p.Name, mapSqlError(err))
	}
	return &out, nil
}

func (s *ProductStore) Get(ctx context.Context, id uuid.UUID) (*storage.Product, error) {
	query := `SELECT * FROM products
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var out storage.Product
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, fmt.Errorf("cannot find product %s: %w", id, mapSqlError(err))
	}
	return &out, nil
}

func (s *ProductStore) Update(ctx context.Context, p *storage.Product) (*storage.Product, error) {
	if p == nil {
		return nil, errNilRecord
	}

	query := `UPDATE products
		SET name = ?, category = ?, description = ?, wholesale_price = ?, retail_price = ?, media_ref = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING *`

	var out storage.Product
	if err := s.db.GetContext(ctx, &out, query,
		p.Name, p.Category, p.Description, p.WholesalePrice, p.RetailPrice,
		p.MediaRef, p.UpdatedBy, p.UpdatedAt, p.ID,
	); err != nil {
		return nil, fmt.Errorf("cannot update product %s: %w", p.ID, mapSqlError(err))
	}
	return &out, nil
}

func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete product %s: %w", id, mapSqlError(err))
	}
	return rowsAffectedOrNotFound(result, nil)
}

func (s *ProductStore) List(ctx context.Context) ([]*storage.Product, error) {
	query := `SELECT * FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`

	var out []*storage.Product
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", mapSqlError(err))
	}
	return out, nil
}
