package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/config"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/document"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/lifecycle"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/telemetry"
)

var errMissingField = errors.New("missing required field")

func NewCustomerHandler(manager *lifecycle.Manager[*storage.Customer], cfg config.MediaConfig, metrics *telemetry.Metrics, logger *slog.Logger) *RecordHandler[*storage.Customer] {
	return &RecordHandler[*storage.Customer]{
		Kind:          storage.KindCustomer,
		Manager:       manager,
		Metrics:       metrics,
		Logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
		blank:         func() *storage.Customer { return &storage.Customer{} },
		decode: func(r *http.Request, c *storage.Customer) error {
			c.Name = strings.TrimSpace(r.FormValue("name"))
			c.Email = strings.TrimSpace(r.FormValue("email"))
			c.Phone = strings.TrimSpace(r.FormValue("phone"))
			c.Address = strings.TrimSpace(r.FormValue("address"))
			if c.Name == "" {
				return fmt.Errorf("%w: name", errMissingField)
			}
			return nil
		},
		apply: func(r *http.Request) (func(*storage.Customer), error) {
			return func(c *storage.Customer) {
				setIfPresent(r, "name", &c.Name)
				setIfPresent(r, "email", &c.Email)
				setIfPresent(r, "phone", &c.Phone)
				setIfPresent(r, "address", &c.Address)
			}, nil
		},
	}
}

func NewProductHandler(manager *lifecycle.Manager[*storage.Product], cfg config.MediaConfig, metrics *telemetry.Metrics, logger *slog.Logger) *RecordHandler[*storage.Product] {
	return &RecordHandler[*storage.Product]{
		Kind:          storage.KindProduct,
		Manager:       manager,
		Metrics:       metrics,
		Logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
		blank:         func() *storage.Product { return &storage.Product{} },
		decode: func(r *http.Request, p *storage.Product) error {
			p.Name = strings.TrimSpace(r.FormValue("name"))
			p.Category = strings.TrimSpace(r.FormValue("category"))
			p.Description = strings.TrimSpace(r.FormValue("description"))
			if p.Name == "" {
				return fmt.Errorf("%w: name", errMissingField)
			}

			var err error
			if p.WholesalePrice, err = parsePrice(r.FormValue("wholesale_price")); err != nil {
				return err
			}
			if p.RetailPrice, err = parsePrice(r.FormValue("retail_price")); err != nil {
				return err
			}
			return nil
		},
		apply: func(r *http.Request) (func(*storage.Product), error) {
			// parse up front so a bad price rejects before anything mutates
			var wholesale, retail *float64
			if raw := r.FormValue("wholesale_price"); raw != "" {
				v, err := parsePrice(raw)
				if err != nil {
					return nil, err
				}
				wholesale = &v
			}
			if raw := r.FormValue("retail_price"); raw != "" {
				v, err := parsePrice(raw)
				if err != nil {
					return nil, err
				}
				retail = &v
			}

			return func(p *storage.Product) {
				setIfPresent(r, "name", &p.Name)
				setIfPresent(r, "category", &p.Category)
				setIfPresent(r, "description", &p.Description)
				if wholesale != nil {
					p.WholesalePrice = *wholesale
				}
				if retail != nil {
					p.RetailPrice = *retail
				}
			}, nil
		},
	}
}

func NewBlogPostHandler(manager *lifecycle.Manager[*storage.BlogPost], cfg config.MediaConfig, metrics *telemetry.Metrics, logger *slog.Logger) *RecordHandler[*storage.BlogPost] {
	return &RecordHandler[*storage.BlogPost]{
		Kind:          storage.KindBlogPost,
		Manager:       manager,
		Metrics:       metrics,
		Logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
		blank:         func() *storage.BlogPost { return &storage.BlogPost{} },
		decode: func(r *http.Request, p *storage.BlogPost) error {
			p.Title = strings.TrimSpace(r.FormValue("title"))
			p.Excerpt = strings.TrimSpace(r.FormValue("excerpt"))
			if p.Title == "" {
				return fmt.Errorf("%w: title", errMissingField)
			}

			body, err := parseBody(r.FormValue("body"))
			if err != nil {
				return err
			}
			p.Body = body
			return nil
		},
		apply: func(r *http.Request) (func(*storage.BlogPost), error) {
			var body []byte
			if raw := r.FormValue("body"); raw != "" {
				parsed, err := parseBody(raw)
				if err != nil {
					return nil, err
				}
				body = parsed
			}

			return func(p *storage.BlogPost) {
				setIfPresent(r, "title", &p.Title)
				setIfPresent(r, "excerpt", &p.Excerpt)
				if body != nil {
					p.Body = body
				}
			}, nil
		},
	}
}

func NewGalleryHandler(manager *lifecycle.Manager[*storage.GalleryItem], cfg config.MediaConfig, metrics *telemetry.Metrics, logger *slog.Logger) *RecordHandler[*storage.GalleryItem] {
	return &RecordHandler[*storage.GalleryItem]{
		Kind:          storage.KindGalleryItem,
		Manager:       manager,
		Metrics:       metrics,
		Logger:        logger,
		maxUploadSize: cfg.MaxUploadSize,
		blank:         func() *storage.GalleryItem { return &storage.GalleryItem{} },
		decode: func(r *http.Request, g *storage.GalleryItem) error {
			g.Title = strings.TrimSpace(r.FormValue("title"))
			g.Caption = strings.TrimSpace(r.FormValue("caption"))
			if g.Title == "" {
				return fmt.Errorf("%w: title", errMissingField)
			}
			return nil
		},
		apply: func(r *http.Request) (func(*storage.GalleryItem), error) {
			return func(g *storage.GalleryItem) {
				setIfPresent(r, "title", &g.Title)
				setIfPresent(r, "caption", &g.Caption)
			}, nil
		},
	}
}

// setIfPresent copies a form field into dst only when the request carries
// it, so omitted fields keep their stored values.
func setIfPresent(r *http.Request, field string, dst *string) {
	if !r.Form.Has(field) {
		return
	}
	*dst = strings.TrimSpace(r.FormValue(field))
}

func parsePrice(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return v, nil
}

// parseBody validates the submitted document tree and re-serializes it
// in canonical form.
func parseBody(raw string) ([]byte, error) {
	doc, err := document.Parse([]byte(raw))
	if err != nil {
		return nil, err
	}
	return doc.Marshal()
}
