// Package handlers exposes the back-office console as a JSON API and
// renders the public marketing site.
package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/lifecycle"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/media"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

var errFileTooLarge = errors.New("uploaded file too large")

// RecordHandler serves the console CRUD endpoints of one record kind.
// Field decoding is the only per-kind behavior; everything after that is
// the lifecycle manager's problem.
type RecordHandler[R storage.Record] struct {
	Kind    storage.Kind
	Manager *lifecycle.Manager[R]
	Metrics *telemetry.Metrics
	Logger  *slog.Logger

	// blank returns a fresh record for Create to decode into
	blank func() R
	// decode reads the full field set of a new record from the form
	decode func(r *http.Request, rec R) error
	// apply turns submitted fields into a partial update
	apply func(r *http.Request) (func(R), error)

	maxUploadSize int64
}

func (h *RecordHandler[R]) HandleCreate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upload, err := uploadFromRequest(r, h.maxUploadSize)
		if err != nil {
			h.badUpload(w, r, err)
			return
		}
		// multipart parsing already populated r.Form; this covers the
		// urlencoded case
		r.ParseForm()

		rec := h.blank()
		if err := h.decode(r, rec); err != nil {
			h.Logger.Warn("rejecting create", "kind", h.Kind, "err", err)
			respondError(w, http.StatusUnprocessableEntity, lifecycle.ErrValidation.Error())
			return
		}

		res := h.Manager.Create(r.Context(), rec, upload)
		h.countMutation(r, res, "create")
		respondJSON(w, createdStatus(res), res)
	})
}

func (h *RecordHandler[R]) HandleUpdate() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.FromString(r.PathValue("id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid record id")
			return
		}

		upload, err := uploadFromRequest(r, h.maxUploadSize)
		if err != nil {
			h.badUpload(w, r, err)
			return
		}
		r.ParseForm()

		apply, err := h.apply(r)
		if err != nil {
			h.Logger.Warn("rejecting update", "kind", h.Kind, "id", id, "err", err)
			respondError(w, http.StatusUnprocessableEntity, lifecycle.ErrValidation.Error())
			return
		}

		res := h.Manager.Update(r.Context(), id, apply, upload)
		h.countMutation(r, res, "update")
		respondJSON(w, resultStatus(res), res)
	})
}

func (h *RecordHandler[R]) HandleDelete() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.FromString(r.PathValue("id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid record id")
			return
		}

		res := h.Manager.Delete(r.Context(), id)
		h.countMutation(r, res, "delete")
		respondJSON(w, resultStatus(res), res)
	})
}

func (h *RecordHandler[R]) HandleGet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.FromString(r.PathValue("id"))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid record id")
			return
		}

		rec, err := h.Manager.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respondError(w, http.StatusNotFound, lifecycle.ErrNotFound.Error())
				return
			}
			h.Logger.Error("get failed", "kind", h.Kind, "id", id, "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, rec)
	})
}

func (h *RecordHandler[R]) HandleList() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recs, err := h.Manager.List(r.Context())
		if err != nil {
			h.Logger.Error("list failed", "kind", h.Kind, "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		respondJSON(w, http.StatusOK, Slice(recs, paginate(r)))
	})
}

func (h *RecordHandler[R]) countMutation(r *http.Request, res lifecycle.Result, action string) {
	if res.OK && h.Metrics != nil {
		h.Metrics.RecordMutation(r.Context(), string(h.Kind), action)
	}
}

func (h *RecordHandler[R]) badUpload(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errFileTooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, errFileTooLarge.Error())
		return
	}
	h.Logger.Warn("bad upload", "kind", h.Kind, "err", err)
	respondError(w, http.StatusBadRequest, "malformed upload")
}

func createdStatus(res lifecycle.Result) int {
	if res.OK {
		return http.StatusCreated
	}
	return resultStatus(res)
}

// uploadFromRequest pulls the optional "file" part out of a multipart
// form. Plain form submissions and multipart forms without a file part
// both come back nil, which the lifecycle treats as "no new asset".
func uploadFromRequest(r *http.Request, maxSize int64) (*media.Upload, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxSize); err != nil {
		if errors.Is(err, multipart.ErrMessageTooLarge) {
			return nil, errFileTooLarge
		}
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading file part: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, errFileTooLarge
	}

	return &media.Upload{Name: header.Filename, Data: data}, nil
}
