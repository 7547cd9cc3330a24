package handlers

import (
	"net/http"
	"strconv"
)

const defaultPerPage = 25
const maxPerPage = 100

// pagination carries the offset/limit pair parsed from ?page and ?per_page.
type pagination struct {
	Page    int64
	PerPage int64
}

func paginate(r *http.Request) pagination {
	p := pagination{Page: 1, PerPage: defaultPerPage}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.ParseInt(raw, 10, 64); err == nil && page > 0 {
			p.Page = page
		}
	}
	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if perPage, err := strconv.ParseInt(raw, 10, 64); err == nil && perPage > 0 {
			p.PerPage = min(perPage, maxPerPage)
		}
	}
	return p
}

func (p pagination) Offset() int64 { return (p.Page - 1) * p.PerPage }
func (p pagination) Limit() int64  { return p.PerPage }

// Slice applies the window to an in-memory result set.
func Slice[T any](items []T, p pagination) []T {
	start := p.Offset()
	if start >= int64(len(items)) {
		return nil
	}
	end := min(start+p.Limit(), int64(len(items)))
	return items[start:end]
}
