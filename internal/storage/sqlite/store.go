package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type Store struct {
	db *sqlx.DB
}

var (
	_ storage.AuditStore   = (*Store)(nil)
	_ storage.UserStore    = (*Store)(nil)
	_ storage.UsageCounter = (*Store)(nil)

	_ storage.Persistence[*storage.Customer]    = (*CustomerStore)(nil)
	_ storage.Persistence[*storage.Product]     = (*ProductStore)(nil)
	_ storage.Persistence[*storage.BlogPost]    = (*BlogPostStore)(nil)
	_ storage.Persistence[*storage.GalleryItem] = (*GalleryStore)(nil)
)

// NewStore creates a new database store
func NewStore(dbPath string) (*Store, error) {
	db, err := NewDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// RawDB returns the underlying sql/DB that sqlx uses mostly for session manager
func (s *Store) RawDB() *sql.DB {
	return s.db.DB
}

// Typed views over the shared connection, one per record kind.
func (s *Store) Customers() *CustomerStore  { return &CustomerStore{db: s.db} }
func (s *Store) Products() *ProductStore    { return &ProductStore{db: s.db} }
func (s *Store) BlogPosts() *BlogPostStore  { return &BlogPostStore{db: s.db} }
func (s *Store) Gallery() *GalleryStore     { return &GalleryStore{db: s.db} }

func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func rowsAffectedOrNotFound(result sql.Result, execErr error) error {
	if execErr != nil {
		return mapSqlError(execErr)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return storage.ErrNotFound
	}
	return nil
}

var errNilRecord = errors.New("record must not be nil")
