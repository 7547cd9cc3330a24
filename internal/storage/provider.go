package storage

import (
	"context"
	"io"
)

// Provider is the binary storage collaborator media assets are written
// through. Delete is best-effort at the call sites; the provider itself
// reports failures honestly.
type Provider interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) bool
	Save(ctx context.Context, key string, body io.Reader) error
	Delete(ctx context.Context, key string) error
}
