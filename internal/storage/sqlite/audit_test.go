package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

func TestAppendAndListAuditEntries(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)
	ctx := context.Background()
	actor := uuid.Must(uuid.NewV4())

	var targets []uuid.UUID
	for _, action := range []string{"create_product", "update_product", "delete_product"} {
		target := uuid.Must(uuid.NewV4())
		targets = append(targets, target)

		entry, err := store.AppendAuditEntry(ctx, &storage.AuditEntry{
			ActorID:  actor,
			Action:   action,
			TargetID: target,
			Message:  action + " " + target.String(),
			Metadata: []byte(`{"media_ref":"assets/stout.png"}`),
		})
		if err != nil {
			t.Fatalf("append %s: %v", action, err)
		}
		if entry.ID == 0 {
			t.Error("entry did not receive a sequence id")
		}
		if time.Since(entry.CreatedAt) > time.Minute {
			t.Errorf("entry timestamp not set: %s", entry.CreatedAt)
		}
	}

	entries, err := store.ListAuditEntries(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("list returned %d entries, want 3", len(entries))
	}

	// newest first
	if entries[0].Action != "delete_product" || entries[0].TargetID != targets[2] {
		t.Errorf("first entry = %s/%s, want newest", entries[0].Action, entries[0].TargetID)
	}

	// pagination
	page, err := store.ListAuditEntries(ctx, 1, 1)
	if err != nil {
		t.Fatalf("paged list: %v", err)
	}
	if len(page) != 1 || page[0].Action != "update_product" {
		t.Errorf("offset 1 limit 1 = %+v, want the middle entry", page)
	}
}

func TestAppendAuditEntryRejectsEmptyAction(t *testing.T) {
	t.Parallel()

	store := setupTestStore(t)

	_, err := store.AppendAuditEntry(context.Background(), &storage.AuditEntry{
		ActorID:  uuid.Must(uuid.NewV4()),
		TargetID: uuid.Must(uuid.NewV4()),
	})
	if err == nil {
		t.Fatal("entry with empty action was accepted")
	}
}
