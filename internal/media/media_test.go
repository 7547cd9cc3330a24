package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
)

type fakeProvider struct {
	mu      sync.Mutex
	objects map[string][]byte
	saveErr error
	delErr  error
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{objects: make(map[string][]byte)}
}

func (f *fakeProvider) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (f *fakeProvider) Exists(_ context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeProvider) Save(_ context.Context, key string, body io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeProvider) Delete(_ context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func testStore(provider *fakeProvider) *Store {
	cfg := config.MediaConfig{
		Prefix:     "assets",
		DefaultKey: "assets/placeholder.png",
	}
	logger := slog.New(slog.DiscardHandler)
	return NewStore(provider, cfg, logger)
}

func TestSaveGeneratesUniqueKeys(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	store := testStore(provider)
	ctx := context.Background()

	up := &Upload{Name: "label.png", Data: []byte("png bytes")}

	first, err := store.Save(ctx, up)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second, err := store.Save(ctx, up)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if first == second {
		t.Errorf("two saves of the same file produced the same key: %q", first)
	}
	if !strings.HasSuffix(first, "_label.png") {
		t.Errorf("key %q does not end in the sanitized name", first)
	}
	if !provider.Exists(ctx, first) || !provider.Exists(ctx, second) {
		t.Error("saved objects missing from provider")
	}
}

func TestSaveEmptyUpload(t *testing.T) {
	t.Parallel()

	store := testStore(newFakeProvider())

	for _, up := range []*Upload{nil, {Name: "x.png"}, {Name: "x.png", Data: []byte{}}} {
		if _, err := store.Save(context.Background(), up); !errors.Is(err, ErrEmptyUpload) {
			t.Errorf("Save(%v) err = %v, want ErrEmptyUpload", up, err)
		}
	}
}

func TestSavePropagatesProviderFailure(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.saveErr = errors.New("disk full")
	store := testStore(provider)

	_, err := store.Save(context.Background(), &Upload{Name: "x.png", Data: []byte("x")})
	if !errors.Is(err, ErrSaveFailed) {
		t.Fatalf("Save err = %v, want ErrSaveFailed", err)
	}
	if len(provider.objects) != 0 {
		t.Error("failed save left an object behind")
	}
}

func TestDeleteIsBestEffort(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	provider.delErr = errors.New("backend unavailable")
	store := testStore(provider)

	// must not panic or surface the failure
	store.Delete(context.Background(), "assets/gone.png")
}

func TestDeleteSkipsDefaultKey(t *testing.T) {
	t.Parallel()

	provider := newFakeProvider()
	store := testStore(provider)
	ctx := context.Background()

	provider.objects[store.DefaultKey()] = []byte("placeholder")

	store.Delete(ctx, store.DefaultKey())
	store.Delete(ctx, "")

	if !provider.Exists(ctx, store.DefaultKey()) {
		t.Error("default asset was deleted")
	}
}

func TestSanitizeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "label.png", want: "label.png"},
		{name: "uppercase", in: "Label.PNG", want: "label.png"},
		{name: "spaces and symbols", in: "étiquette finale (v2).png", want: "tiquette-finale--v2-.png"},
		{name: "path traversal", in: "../../etc/passwd", want: "passwd"},
		{name: "windows path", in: `C:\photos\bottle.jpg`, want: "bottle.jpg"},
		{name: "empty", in: "", want: "upload"},
		{name: "only symbols", in: "???", want: "upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeName(tt.in); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
