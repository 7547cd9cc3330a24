package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/jmoiron/sqlx"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type CustomerStore struct {
	db *sqlx.DB
}

func (s *CustomerStore) Create(ctx context.Context, c *storage.Customer) (*storage.Customer, error) {
	if c == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO customers (id, name, email, phone, address, media_ref, created_by, updated_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING *`

	var out storage.Customer
	if err := s.db.GetContext(ctx, &out, query,
		c.ID, c.Name, c.Email, c.Phone, c.Address, c.MediaRef,
		c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("cannot create customer %q: %w", c.Name, mapSqlError(err))
	}
	return &out, nil
}

func (s *CustomerStore) Get(ctx context.Context, id uuid.UUID) (*storage.Customer, error) {
	query := `SELECT * FROM customers
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var out storage.Customer
	if err := s.db.GetContext(ctx, &out, query, id); err != nil {
		return nil, fmt.Errorf("cannot find customer %s: %w", id, mapSqlError(err))
	}
	return &out, nil
}

func (s *CustomerStore) Update(ctx context.Context, c *storage.Customer) (*storage.Customer, error) {
	if c == nil {
		return nil, errNilRecord
	}

	query := `UPDATE customers
		SET name = ?, email = ?, phone = ?, address = ?, media_ref = ?, updated_by = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
		RETURNING *`

	var out storage.Customer
	if err := s.db.GetContext(ctx, &out, query,
		c.Name, c.Email, c.Phone, c.Address, c.MediaRef, c.UpdatedBy, c.UpdatedAt, c.ID,
	); err != nil {
		return nil, fmt.Errorf("cannot update customer %s: %w", c.ID, mapSqlError(err))
	}
	return &out, nil
}

func (s *CustomerStore) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE customers SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("could not delete customer %s: %w", id, mapSqlError(err))
	}
	return rowsAffectedOrNotFound(result, nil)
}

func (s *CustomerStore) List(ctx context.Context) ([]*storage.Customer, error) {
	query := `SELECT * FROM customers
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`

	var out []*storage.Customer
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", mapSqlError(err))
	}
	return out, nil
}
