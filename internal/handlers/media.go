package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/media"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

const cacheForAYear = 31536000

// MediaHandler streams stored assets to the public site. Keys are opaque
// and immutable once written, so browsers may cache aggressively.
type MediaHandler struct {
	Assets *media.Store
	Tracer trace.Tracer
	Logger *slog.Logger
}

func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.Tracer.Start(r.Context(), "MediaHandler.ServeHTTP")
	defer span.End()

	key := r.PathValue("key")
	if key == "" || path.Clean("/"+key) != "/"+key {
		http.NotFound(w, r)
		return
	}
	span.SetAttributes(attribute.String("media.key", key))

	reader, err := h.Assets.Open(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			h.Logger.Error("opening asset", "key", key, "err", err)
		}
		http.NotFound(w, r)
		return
	}
	defer reader.Close()

	mimeType := mime.TypeByExtension(path.Ext(key))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, immutable", cacheForAYear))

	if _, err := io.Copy(w, reader); err != nil {
		h.Logger.Warn("stream interrupted", "key", key, "err", err)
	}
}
