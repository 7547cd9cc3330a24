package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/audit"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/media"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

// ActorResolver is the auth collaborator: it yields the identity behind
// the current invocation, or reports that there is none.
type ActorResolver interface {
	Resolve(ctx context.Context) (uuid.UUID, bool)
}

// Invalidator is the cache hook signalled after every successful mutation
// so dependent public views refresh.
type Invalidator interface {
	Invalidate(path string)
}

// Deps bundles the collaborators every record kind's manager shares.
type Deps struct {
	Actors ActorResolver
	Guard  Guard
	Audit  *audit.Writer
	Assets *media.Store
	Cache  Invalidator
	// Paths are the public paths whose cached renderings a mutation of
	// this kind invalidates; the record's own detail path is derived.
	Paths   []string
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *telemetry.Metrics
}

// Manager orchestrates create/update/delete for one record kind,
// composing the asset store, the deletion guard, the audit writer and the
// persistence collaborator. All collaborators are injected; there are no
// package-level singletons.
type Manager[R storage.Record] struct {
	kind   storage.Kind
	store  storage.Persistence[R]
	actors ActorResolver
	guard  Guard
	audit  *audit.Writer
	assets *media.Store
	cache   Invalidator
	paths   []string
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
	now     func() time.Time
}

func NewManager[R storage.Record](kind storage.Kind, store storage.Persistence[R], deps Deps) *Manager[R] {
	guard := deps.Guard
	if guard == nil {
		guard = AllowAll{}
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Manager[R]{
		kind:    kind,
		store:   store,
		actors:  deps.Actors,
		guard:   guard,
		audit:   deps.Audit,
		assets:  deps.Assets,
		cache:   deps.Cache,
		paths:   deps.Paths,
		logger:  logger.With("kind", string(kind)),
		tracer:  tracer,
		metrics: deps.Metrics,
		now:     time.Now,
	}
}

// Create persists a new record for a resolved actor. When an upload is
// supplied its stored key becomes the record's media reference, otherwise
// the well-known default is used. The asset is written strictly before
// the record commits, so a storage failure never leaves a half-created
// record.
func (m *Manager[R]) Create(ctx context.Context, rec R, upload *media.Upload) Result {
	ctx, span := m.tracer.Start(ctx, "Lifecycle.Create",
		trace.WithAttributes(attribute.String("record.kind", string(m.kind))))
	defer span.End()

	actor, ok := m.actors.Resolve(ctx)
	if !ok {
		return failure(ErrUnauthorized)
	}

	id, err := uuid.NewV4()
	if err != nil {
		m.logger.Error("could not generate record id", "err", err)
		return failure(ErrPersistence)
	}
	rec.SetRecordID(id)
	rec.StampCreated(actor, m.now().UTC())

	if !upload.IsEmpty() {
		key, err := m.assets.Save(ctx, upload)
		if err != nil {
			span.RecordError(err)
			m.logger.Error("asset save failed", "err", err)
			return failure(ErrStorage)
		}
		rec.SetMediaKey(key)
		m.countAssetStored(ctx)
	} else if rec.MediaKey() == "" {
		rec.SetMediaKey(m.assets.DefaultKey())
	}

	stored, err := m.store.Create(ctx, rec)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("create failed", "err", err)
		return failure(persistenceError(err))
	}

	m.writeAudit(ctx, actor, "create", stored)
	m.invalidate(stored.RecordID())

	m.logger.Info("record created", "id", stored.RecordID(), "actor", actor)
	return success(stored.RecordID(), "created")
}

// Update applies a partial field replacement to an existing record.
// Fields the caller does not touch keep their stored values, and the
// media reference only changes when a new non-empty upload arrives. The
// replaced asset is not removed here: cleanup happens when the record
// itself is deleted, or the orphan is accepted.
func (m *Manager[R]) Update(ctx context.Context, id uuid.UUID, apply func(R), upload *media.Upload) Result {
	ctx, span := m.tracer.Start(ctx, "Lifecycle.Update",
		trace.WithAttributes(attribute.String("record.kind", string(m.kind)), attribute.String("record.id", id.String())))
	defer span.End()

	actor, ok := m.actors.Resolve(ctx)
	if !ok {
		return failure(ErrUnauthorized)
	}

	existing, err := m.store.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return failure(persistenceError(err))
	}

	if apply != nil {
		apply(existing)
	}

	if !upload.IsEmpty() {
		key, err := m.assets.Save(ctx, upload)
		if err != nil {
			span.RecordError(err)
			m.logger.Error("asset save failed", "id", id, "err", err)
			return failure(ErrStorage)
		}
		existing.SetMediaKey(key)
		m.countAssetStored(ctx)
	}

	existing.StampUpdated(actor, m.now().UTC())

	stored, err := m.store.Update(ctx, existing)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("update failed", "id", id, "err", err)
		return failure(persistenceError(err))
	}

	m.writeAudit(ctx, actor, "update", stored)
	m.invalidate(stored.RecordID())

	m.logger.Info("record updated", "id", id, "actor", actor)
	return success(id, "updated")
}

// Delete removes a record after the reference guard clears it. The owned
// asset is removed best-effort; a leftover file is a minor leak, not a
// correctness problem.
func (m *Manager[R]) Delete(ctx context.Context, id uuid.UUID) Result {
	ctx, span := m.tracer.Start(ctx, "Lifecycle.Delete",
		trace.WithAttributes(attribute.String("record.kind", string(m.kind)), attribute.String("record.id", id.String())))
	defer span.End()

	actor, ok := m.actors.Resolve(ctx)
	if !ok {
		return failure(ErrUnauthorized)
	}

	existing, err := m.store.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return failure(persistenceError(err))
	}

	usages, err := m.guard.CountUsages(ctx, id)
	if err != nil {
		span.RecordError(err)
		m.logger.Error("reference check failed", "id", id, "err", err)
		return failure(ErrPersistence)
	}
	if usages > 0 {
		span.SetAttributes(attribute.Int64("record.usages", usages))
		return failure(ErrReferentialConflict)
	}

	m.assets.Delete(ctx, existing.MediaKey())

	if err := m.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		m.logger.Error("delete failed", "id", id, "err", err)
		return failure(persistenceError(err))
	}

	m.writeAudit(ctx, actor, "delete", existing)
	m.invalidate(id)

	m.logger.Info("record deleted", "id", id, "actor", actor)
	return success(id, "deleted")
}

// Get is a read-only passthrough with no side effects.
func (m *Manager[R]) Get(ctx context.Context, id uuid.UUID) (R, error) {
	return m.store.Get(ctx, id)
}

// List is a read-only passthrough with no side effects.
func (m *Manager[R]) List(ctx context.Context) ([]R, error) {
	return m.store.List(ctx)
}

// writeAudit appends the single audit entry a confirmed mutation owes.
// An append failure leaves a gap in the trail but never reverses the
// mutation: the caller still sees the original success.
func (m *Manager[R]) writeAudit(ctx context.Context, actor uuid.UUID, verb string, rec R) {
	if m.audit == nil {
		return
	}

	action := verb + "_" + string(m.kind)
	message := fmt.Sprintf("%s %s %s", verb, m.kind, rec.RecordID())
	metadata := map[string]string{"media_ref": rec.MediaKey()}

	if err := m.audit.Append(ctx, actor, action, rec.RecordID(), message, metadata); err != nil && m.metrics != nil {
		m.metrics.AuditFailure(ctx, string(m.kind))
	}
}

func (m *Manager[R]) countAssetStored(ctx context.Context) {
	if m.metrics != nil {
		m.metrics.AssetStored(ctx, string(m.kind))
	}
}

func (m *Manager[R]) invalidate(id uuid.UUID) {
	if m.cache == nil {
		return
	}
	for _, p := range m.paths {
		m.cache.Invalidate(p)
		m.cache.Invalidate(p + "/" + id.String())
	}
}

func persistenceError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrUniqueViolation), errors.Is(err, storage.ErrCheckViolation):
		return ErrValidation
	default:
		return ErrPersistence
	}
}
