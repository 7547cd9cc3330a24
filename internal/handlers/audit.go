package handlers

import (
	"log/slog"
	"net/http"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/audit"
)

// AuditHandler serves the append-only trail, newest first.
type AuditHandler struct {
	Trail  *audit.Writer
	Logger *slog.Logger
}

func (h *AuditHandler) HandleList() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := paginate(r)

		entries, err := h.Trail.List(r.Context(), p.Offset(), p.Limit())
		if err != nil {
			h.Logger.Error("listing audit entries", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, entries)
	})
}
