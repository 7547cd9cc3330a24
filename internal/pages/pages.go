// Package pages serves the static marketing pages of the public site:
// markdown files on disk, rendered to HTML on first request and cached
// in memory for the life of the process.
package pages

import (
	"sort"
	"sync"
	"time"
)

// Page is one marketing page. Content is populated lazily by Render.
type Page struct {
	Slug        string
	Title       string
	Description string
	ModifiedAt  time.Time
	Path        string
	Draft       bool

	content []byte
	mu      sync.RWMutex
}

// Repository holds the marketing pages of one site, keyed by slug.
type Repository struct {
	siteName string
	renderer *Renderer
	data     map[string]*Page
	mu       sync.RWMutex
}

func NewRepository(siteName string, renderer *Renderer) (*Repository, error) {
	if siteName == "" {
		return nil, ErrRepositoryName
	}

	return &Repository{
		siteName: siteName,
		renderer: renderer,
		data:     make(map[string]*Page),
	}, nil
}

func (r *Repository) SiteName() string {
	return r.siteName
}

// All returns every non-draft page, most recently modified first.
func (r *Repository) All() []*Page {
	r.mu.RLock()

	list := make([]*Page, 0, len(r.data))
	for _, page := range r.data {
		if page.Draft {
			continue
		}
		list = append(list, page)
	}

	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		return list[i].ModifiedAt.After(list[j].ModifiedAt)
	})

	return list
}

func (r *Repository) Get(slug string) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	page, ok := r.data[slug]
	if !ok || page.Draft {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (r *Repository) put(page *Page) {
	r.mu.Lock()
	r.data[page.Slug] = page
	r.mu.Unlock()
}
