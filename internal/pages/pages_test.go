package pages

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupRepo(t *testing.T, dir string) *Repository {
	t.Helper()
	repo, err := NewRepository("Raybow Beverages", NewRenderer("/media"))
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.LoadFromDisk(dir, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestLoadFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "about.md", "---\ntitle: About Us\ndescription: Who we are\n---\n\nWe move drinks.\n")
	writePage(t, dir, "history.md", "# Our History\n\nFounded long ago.\n")
	writePage(t, dir, "wip.md", "---\ntitle: WIP\ndraft: true\n---\nnot yet\n")
	writePage(t, dir, "notes.txt", "ignored, not markdown")

	repo := setupRepo(t, dir)

	about, err := repo.Get("about")
	if err != nil {
		t.Fatalf("get about: %v", err)
	}
	if about.Title != "About Us" || about.Description != "Who we are" {
		t.Errorf("frontmatter not applied: %+v", about)
	}

	// files without frontmatter fall back on the first heading
	history, err := repo.Get("history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	if history.Title != "Our History" {
		t.Errorf("fallback title = %q", history.Title)
	}

	if _, err := repo.Get("wip"); err != ErrPageNotFound {
		t.Errorf("draft visible: err = %v", err)
	}
	if _, err := repo.Get("notes"); err != ErrPageNotFound {
		t.Errorf("non-markdown file registered: err = %v", err)
	}

	if got := len(repo.All()); got != 2 {
		t.Errorf("All() returned %d pages, want 2", got)
	}
}

func TestRenderCachesAndRewritesMedia(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "brands.md", "---\ntitle: Brands\n---\n\n![Stout](labels/stout.png)\n\n![Logo](https://cdn.example.com/logo.png)\n")

	repo := setupRepo(t, dir)
	page, err := repo.Get("brands")
	if err != nil {
		t.Fatal(err)
	}

	html, err := repo.Render(page)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), `src="/media/labels/stout.png"`) {
		t.Errorf("relative image not rewritten: %s", html)
	}
	if !strings.Contains(string(html), `src="https://cdn.example.com/logo.png"`) {
		t.Errorf("external image rewritten: %s", html)
	}

	again, err := repo.Render(page)
	if err != nil {
		t.Fatal(err)
	}
	if &html[0] != &again[0] {
		t.Error("second render did not come from cache")
	}
}

func TestGetUnknownSlug(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t, t.TempDir())
	if _, err := repo.Get("nope"); err != ErrPageNotFound {
		t.Errorf("err = %v, want ErrPageNotFound", err)
	}
}

func TestNewRepositoryRequiresName(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository("", NewRenderer("/media")); err != ErrRepositoryName {
		t.Errorf("err = %v, want ErrRepositoryName", err)
	}
}
