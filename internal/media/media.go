package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

var (
	ErrEmptyUpload = errors.New("upload has no content")
	ErrSaveFailed  = errors.New("could not store asset")
)

// Upload is an explicit optional: a nil *Upload means "no new asset".
// A zero-byte upload counts as empty too, matching how the console treats
// a submitted-but-blank file input.
type Upload struct {
	Name string
	Data []byte
}

func (u *Upload) IsEmpty() bool {
	return u == nil || len(u.Data) == 0
}

// Store persists uploaded binaries through a storage Provider and hands
// back stable keys. Every record-owned asset key goes through here.
type Store struct {
	provider   storage.Provider
	prefix     string
	defaultKey string
	logger     *slog.Logger
	tracer     trace.Tracer
}

func NewStore(provider storage.Provider, cfg config.MediaConfig, logger *slog.Logger) *Store {
	return &Store{
		provider:   provider,
		prefix:     cfg.Prefix,
		defaultKey: cfg.DefaultKey,
		logger:     logger,
		tracer:     otel.Tracer("rby/media"),
	}
}

// DefaultKey is the well-known placeholder used for records created
// without an upload.
func (s *Store) DefaultKey() string {
	return s.defaultKey
}

// Save writes the upload under a freshly generated collision-resistant
// key and returns it. A failed write surfaces an error and leaves nothing
// behind under the final key.
func (s *Store) Save(ctx context.Context, up *Upload) (string, error) {
	if up.IsEmpty() {
		return "", ErrEmptyUpload
	}

	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	key := path.Join(s.prefix, id.String()+"_"+SanitizeName(up.Name))

	ctx, span := s.tracer.Start(ctx, "Media.Save", trace.WithAttributes(attribute.String("asset.key", key)))
	defer span.End()

	if err := s.provider.Save(ctx, key, bytes.NewReader(up.Data)); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	s.logger.Info("asset stored", "key", key, "bytes", len(up.Data))
	return key, nil
}

// Delete removes a stored asset, best-effort. An orphaned file is a minor
// leak, not a correctness violation, so failures are logged and swallowed.
func (s *Store) Delete(ctx context.Context, key string) {
	if key == "" || key == s.defaultKey {
		// the shared placeholder is never owned by a single record
		return
	}

	ctx, span := s.tracer.Start(ctx, "Media.Delete", trace.WithAttributes(attribute.String("asset.key", key)))
	defer span.End()

	if err := s.provider.Delete(ctx, key); err != nil {
		span.RecordError(err)
		s.logger.Warn("could not delete asset, leaving orphan", "key", key, "err", err)
	}
}

// Open streams a stored asset, used by the public asset handler.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.provider.Open(ctx, key)
}

// SanitizeName reduces an uploaded filename to a safe key fragment:
// lowercase, no path components, anything outside [a-z0-9._-] mapped to a
// dash.
func SanitizeName(name string) string {
	// strip any client-supplied directory part
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "upload"
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}

	out := strings.Trim(sb.String(), ".-")
	if out == "" {
		return "upload"
	}
	return out
}
