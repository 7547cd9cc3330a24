package sqlite

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (*storage.User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("cannot generate user id: %w", err)
	}

	query := `INSERT INTO users (id, username, password_hash)
		VALUES (?, ?, ?)
		RETURNING *`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, id, username, passwordHash); err != nil {
		return nil, fmt.Errorf("cannot create user %q: %w", username, mapSqlError(err))
	}
	return &user, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	query := `SELECT * FROM users
		WHERE id = ? AND deleted_at IS NULL
		LIMIT 1`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("cannot find user id %s: %w", id, mapSqlError(err))
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*storage.User, error) {
	query := `SELECT * FROM users
		WHERE username = ? AND deleted_at IS NULL
		LIMIT 1`

	var user storage.User
	if err := s.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, fmt.Errorf("cannot find username %q: %w", username, mapSqlError(err))
	}
	return &user, nil
}
