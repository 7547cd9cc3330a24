package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

func TestCreateUser(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		username     string
		passwordHash string
		wantErr      error
	}{
		{
			name:         "nominal",
			username:     "user_" + gen60CharString()[:5],
			passwordHash: gen60CharString(),
		},
		{
			name:         "username too short",
			username:     "xx",
			passwordHash: gen60CharString(),
			wantErr:      storage.ErrCheckViolation,
		},
		{
			name:         "username too long",
			username:     gen60CharString(),
			passwordHash: gen60CharString(),
			wantErr:      storage.ErrCheckViolation,
		},
		{
			name:         "hash is not bcrypt length",
			username:     "user_" + gen60CharString()[:5],
			passwordHash: gen60CharString()[:40],
			wantErr:      storage.ErrCheckViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := setupTestStore(t)

			got, err := store.CreateUser(context.Background(), tt.username, tt.passwordHash)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if got.Username != tt.username {
				t.Errorf("username = %q, want %q", got.Username, tt.username)
			}
			if got.PasswordHash != tt.passwordHash {
				t.Errorf("password hash not stored verbatim")
			}
			if time.Since(got.CreatedAt) > time.Minute {
				t.Errorf("creation time not set: %s", got.CreatedAt)
			}
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, "akosua", gen60CharString()); err != nil {
		t.Fatal(err)
	}
	_, err := store.CreateUser(ctx, "akosua", gen60CharString())
	if !errors.Is(err, storage.ErrUniqueViolation) {
		t.Errorf("err = %v, want ErrUniqueViolation", err)
	}
}

func TestGetUserByUsername(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "kwame", gen60CharString())
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.GetUserByUsername(ctx, "kwame")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("id = %s, want %s", got.ID, created.ID)
	}

	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()

	created, err := store.CreateUser(ctx, "adjoa", gen60CharString())
	if err != nil {
		t.Fatal(err)
	}

	got, err := store.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Username != "adjoa" {
		t.Errorf("username = %q, want adjoa", got.Username)
	}
}
