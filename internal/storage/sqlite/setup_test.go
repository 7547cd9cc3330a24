package sqlite

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"os"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

func gen60CharString() string {
	hashBytes := make([]byte, 45)
	_, _ = rand.Read(hashBytes)
	return base64.RawURLEncoding.EncodeToString(hashBytes)
}

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbFile, err := os.CreateTemp(t.TempDir(), "test_rby.*.db")
	if err != nil {
		t.Fatalf("failed to create temp db: %v", err)
	}

	store, err := NewStore(dbFile.Name())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if err := store.Migrate("../../../migrations"); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func createTestUser(t *testing.T, store *Store) *storage.User {
	t.Helper()

	user, err := store.CreateUser(context.Background(), "user_"+gen60CharString()[:8], gen60CharString())
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func newTestProduct(by uuid.UUID) *storage.Product {
	p := &storage.Product{
		ID:             uuid.Must(uuid.NewV4()),
		Name:           "Stout 33cl",
		Category:       "Beer",
		WholesalePrice: 10,
		RetailPrice:    14,
		MediaRef:       "assets/stout.png",
	}
	p.StampCreated(by, time.Now().UTC())
	return p
}
