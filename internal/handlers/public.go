package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/document"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/lifecycle"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/pages"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// PublicHandler renders the visitor-facing site: marketing pages, the
// blog, the product range and the gallery. Everything it serves is
// read-only and sits behind the page cache.
type PublicHandler struct {
	Pages    *pages.Repository
	Posts    *lifecycle.Manager[*storage.BlogPost]
	Products *lifecycle.Manager[*storage.Product]
	Gallery  *lifecycle.Manager[*storage.GalleryItem]
	Allow    document.AllowList
	Logger   *slog.Logger
}

var layoutTemplate = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} | {{.Site}}</title>
{{if .Description}}<meta name="description" content="{{.Description}}">{{end}}
</head>
<body>
<main>
<h1>{{.Title}}</h1>
{{.Body}}
</main>
</body>
</html>
`))

type pageData struct {
	Site        string
	Title       string
	Description string
	Body        template.HTML
}

func (h *PublicHandler) render(w http.ResponseWriter, data pageData) {
	data.Site = h.Pages.SiteName()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layoutTemplate.Execute(w, data); err != nil {
		h.Logger.Error("rendering page", "title", data.Title, "err", err)
	}
}

const maxFeaturedProducts = 6

func (h *PublicHandler) HandleHome() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body template.HTML = `<ul>`
		for _, page := range h.Pages.All() {
			body += template.HTML(`<li><a href="/pages/` + template.HTMLEscapeString(page.Slug) + `">` +
				template.HTMLEscapeString(page.Title) + `</a></li>`)
		}
		body += `</ul>`

		products, err := h.Products.List(r.Context())
		if err != nil {
			h.Logger.Error("listing featured products", "err", err)
		}
		if len(products) > 0 {
			body += `<h2>Our range</h2><ul>`
			for i, p := range products {
				if i == maxFeaturedProducts {
					break
				}
				body += template.HTML(`<li><img src="/media/` + template.HTMLEscapeString(p.MediaRef) +
					`" alt="" width="120"> ` + template.HTMLEscapeString(p.Name) + `</li>`)
			}
			body += `</ul><p><a href="/products">Full product range</a></p>`
		}

		h.render(w, pageData{Title: "Welcome", Body: body})
	})
}

func (h *PublicHandler) HandlePage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := h.Pages.Get(r.PathValue("slug"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		html, err := h.Pages.Render(page)
		if err != nil {
			if errors.Is(err, pages.ErrFileTooLarge) {
				http.Error(w, "page too large", http.StatusRequestEntityTooLarge)
				return
			}
			h.Logger.Error("rendering marketing page", "slug", page.Slug, "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.render(w, pageData{
			Title:       page.Title,
			Description: page.Description,
			Body:        template.HTML(html),
		})
	})
}

func (h *PublicHandler) HandleBlogIndex() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.Posts.List(r.Context())
		if err != nil {
			h.Logger.Error("listing posts", "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var body template.HTML = `<ul>`
		for _, post := range posts {
			body += template.HTML(`<li><a href="/blog/` + post.ID.String() + `">` +
				template.HTMLEscapeString(post.Title) + `</a>: ` +
				template.HTMLEscapeString(post.Excerpt) + `</li>`)
		}
		body += `</ul>`

		h.render(w, pageData{Title: "News", Body: body})
	})
}

func (h *PublicHandler) HandleBlogPost() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.FromString(r.PathValue("id"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		post, err := h.Posts.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.NotFound(w, r)
				return
			}
			h.Logger.Error("finding post", "id", id, "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		doc, err := document.Parse(post.Body)
		if err != nil {
			// a stored body that no longer parses is a data problem, not
			// a reason to 500 the whole site
			h.Logger.Error("stored post body unparsable", "id", id, "err", err)
			http.NotFound(w, r)
			return
		}

		h.render(w, pageData{
			Title:       post.Title,
			Description: post.Excerpt,
			Body:        template.HTML(document.Render(doc, h.Allow)),
		})
	})
}

func (h *PublicHandler) HandleProducts() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := h.Products.List(r.Context())
		if err != nil {
			h.Logger.Error("listing products", "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var body template.HTML = `<ul>`
		for _, p := range products {
			body += template.HTML(`<li><img src="/media/` + template.HTMLEscapeString(p.MediaRef) + `" alt="">` +
				template.HTMLEscapeString(p.Name) + ` (` + template.HTMLEscapeString(p.Category) + `)</li>`)
		}
		body += `</ul>`

		h.render(w, pageData{Title: "Our Range", Body: body})
	})
}

func (h *PublicHandler) HandleGallery() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items, err := h.Gallery.List(r.Context())
		if err != nil {
			h.Logger.Error("listing gallery", "err", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		var body template.HTML = `<ul>`
		for _, item := range items {
			body += template.HTML(`<li><figure><img src="/media/` + template.HTMLEscapeString(item.MediaRef) + `" alt="` +
				template.HTMLEscapeString(item.Title) + `"><figcaption>` +
				template.HTMLEscapeString(item.Caption) + `</figcaption></figure></li>`)
		}
		body += `</ul>`

		h.render(w, pageData{Title: "Gallery", Body: body})
	})
}
