package pages

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

const maxBufferSize = 32 * 1024
const maxFileSize = 10 * 1024 * 1024

type metaData struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"` // for SEO
	ModifiedAt  string `yaml:"modified_at"`
	Draft       bool   `yaml:"draft"`
}

// LoadFromDisk scans dir for markdown files and registers each as a page,
// reading only the frontmatter. Bodies stay on disk until first render.
func (r *Repository) LoadFromDisk(dir string, logger *slog.Logger) error {
	if dir == "" {
		return ErrNoPagesDir
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != ".md" {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			logger.Error("could not open page file", "path", path, "err", err)
			return nil
		}
		defer file.Close()

		var meta metaData
		if _, err := frontmatter.Parse(file, &meta); err != nil || meta.Title == "" {
			// fallback for files without frontmatter
			file.Seek(0, 0)
			meta.Title = fallbackTitleScan(file)
		}

		modified := time.Now().UTC()
		if stats, err := file.Stat(); err == nil {
			modified = stats.ModTime().UTC()
		}
		if meta.ModifiedAt != "" {
			if parsed, err := time.Parse("2006-01-02", meta.ModifiedAt); err == nil {
				modified = parsed
			}
		}

		slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		r.put(&Page{
			Slug:        slug,
			Title:       meta.Title,
			Description: meta.Description,
			ModifiedAt:  modified,
			Path:        path,
			Draft:       meta.Draft,
		})

		logger.Info("registered page", "slug", slug, "title", meta.Title)
		return nil
	})
}

func fallbackTitleScan(rd io.Reader) string {
	scanner := bufio.NewScanner(rd)
	// if the title is not within the first 20 lines it is likely absent
	linesScanned := 0
	for scanner.Scan() {
		linesScanned++
		if linesScanned > 20 {
			break
		}
		if _, title, found := strings.Cut(scanner.Text(), "# "); found {
			return strings.TrimSpace(title)
		}
	}
	return "Untitled Page"
}

// Render returns the page's HTML, converting the markdown body on first
// call and caching the result.
func (r *Repository) Render(page *Page) ([]byte, error) {
	page.mu.RLock()
	if page.content != nil {
		defer page.mu.RUnlock()
		return page.content, nil
	}
	page.mu.RUnlock()

	page.mu.Lock()
	defer page.mu.Unlock()

	// another goroutine may have rendered in between
	if page.content != nil {
		return page.content, nil
	}

	file, err := os.OpenInRoot(filepath.Split(page.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, page.Path, err)
	}
	defer file.Close()

	stats, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileStats, err)
	}
	if stats.Size() > maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFileTooLarge, stats.Size())
	}

	bufReader := bufio.NewReaderSize(file, min(maxBufferSize, int(stats.Size())))
	raw, err := io.ReadAll(bufReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadingFile, page.Path, err)
	}

	var meta metaData
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		// no frontmatter detected, render the raw bytes
		body = raw
	}

	if page.content, err = r.renderer.Render(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContentUnavailable, err)
	}
	return page.content, nil
}
