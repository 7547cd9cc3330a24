package lifecycle

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

type fixedCounter struct{ n int64 }

func (f fixedCounter) CountProductUsages(context.Context, uuid.UUID) (int64, error) {
	return f.n, nil
}

func TestGuardFor(t *testing.T) {
	t.Parallel()

	counter := fixedCounter{n: 7}

	tests := []struct {
		kind storage.Kind
		want int64
	}{
		{storage.KindProduct, 7},
		{storage.KindCustomer, 0},
		{storage.KindBlogPost, 0},
		{storage.KindGalleryItem, 0},
	}

	for _, tt := range tests {
		guard := GuardFor(tt.kind, counter)
		got, err := guard.CountUsages(context.Background(), uuid.Must(uuid.NewV4()))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("%s: usage count = %d, want %d", tt.kind, got, tt.want)
		}
	}
}
