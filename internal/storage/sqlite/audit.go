package sqlite

import (
	"context"
	"fmt"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// AppendAuditEntry inserts one immutable entry. The trail is append-only:
// this package has no update or delete counterpart.
func (s *Store) AppendAuditEntry(ctx context.Context, entry *storage.AuditEntry) (*storage.AuditEntry, error) {
	if entry == nil {
		return nil, errNilRecord
	}

	query := `INSERT INTO audit_entries (actor_id, action, target_id, message, metadata)
		VALUES (?, ?, ?, ?, ?)
		RETURNING *`

	var out storage.AuditEntry
	if err := s.db.GetContext(ctx, &out, query,
		entry.ActorID, entry.Action, entry.TargetID, entry.Message, entry.Metadata,
	); err != nil {
		return nil, fmt.Errorf("cannot append audit entry %q: %w", entry.Action, mapSqlError(err))
	}
	return &out, nil
}

func (s *Store) ListAuditEntries(ctx context.Context, offset, limit int64) ([]*storage.AuditEntry, error) {
	query := `SELECT * FROM audit_entries
		ORDER BY created_at DESC, id DESC
		LIMIT ?
		OFFSET ?`

	var entries []*storage.AuditEntry
	if err := s.db.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", mapSqlError(err))
	}
	return entries, nil
}
