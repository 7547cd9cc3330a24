package lifecycle

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// Guard answers whether a record is still referenced elsewhere. Deletion
// is permitted only when the count is exactly zero.
type Guard interface {
	CountUsages(ctx context.Context, id uuid.UUID) (int64, error)
}

// AllowAll is the explicit no-op guard: it always permits deletion.
type AllowAll struct{}

func (AllowAll) CountUsages(context.Context, uuid.UUID) (int64, error) {
	return 0, nil
}

// ProductGuard blocks deletion of products still cited by order line items.
type ProductGuard struct {
	Counter storage.UsageCounter
}

func (g ProductGuard) CountUsages(ctx context.Context, id uuid.UUID) (int64, error) {
	return g.Counter.CountProductUsages(ctx, id)
}

// GuardFor is the per-kind deletion policy table. Only products carry a
// real reference check today; customers, blog posts and gallery items
// always permit.
func GuardFor(kind storage.Kind, counter storage.UsageCounter) Guard {
	if kind == storage.KindProduct {
		return ProductGuard{Counter: counter}
	}
	return AllowAll{}
}
