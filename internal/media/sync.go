package media

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// SyncDir walks a local seed directory and uploads any image the backend
// does not hold yet. Keys mirror the relative path under sourceDir so the
// placeholder and other well-known assets land where configuration
// expects them.
func SyncDir(ctx context.Context, provider storage.Provider, sourceDir string, logger *slog.Logger) error {
	logger.Info("starting asset sync", "dir", sourceDir)

	rootDir, err := os.OpenRoot(sourceDir)
	if err != nil {
		return fmt.Errorf("could not open directory: %s", sourceDir)
	}

	wantedExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	return filepath.WalkDir(rootDir.Name(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(wantedExtensions, ext) {
			return nil
		}

		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(sourceDir, absPath)
		if err != nil {
			return err
		}
		objectKey := filepath.ToSlash(relPath)

		if provider.Exists(ctx, objectKey) {
			return nil
		}

		logger.Info("syncing missing asset", "key", objectKey)

		file, err := os.Open(path)
		if err != nil {
			logger.Error("failed to open local file", "path", path, "err", err)
			return nil
		}
		defer file.Close()

		if err := provider.Save(ctx, objectKey, file); err != nil {
			logger.Error("failed to upload asset", "key", objectKey, "err", err)
		}

		return nil
	})
}
