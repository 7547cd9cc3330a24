package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// Writer appends immutable entries to the audit trail. Callers invoke it
// once per confirmed mutation, after the mutation has committed.
type Writer struct {
	store  storage.AuditStore
	logger *slog.Logger
}

func NewWriter(store storage.AuditStore, logger *slog.Logger) *Writer {
	return &Writer{store: store, logger: logger}
}

// Append writes one entry. The returned error tells the caller the trail
// has a gap; it must never be used to reverse the mutation it describes.
func (w *Writer) Append(ctx context.Context, actorID uuid.UUID, action string, targetID uuid.UUID, message string, metadata map[string]string) error {
	entry := &storage.AuditEntry{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Message:  message,
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			// keep the entry, note the loss
			w.logger.Warn("dropping unserializable audit metadata", "action", action, "err", err)
		} else {
			entry.Metadata = raw
		}
	}

	if _, err := w.store.AppendAuditEntry(ctx, entry); err != nil {
		w.logger.Error("audit append failed", "action", action, "target", targetID, "err", err)
		return fmt.Errorf("audit append: %w", err)
	}

	return nil
}

func (w *Writer) List(ctx context.Context, offset, limit int64) ([]*storage.AuditEntry, error) {
	return w.store.ListAuditEntries(ctx, offset, limit)
}
