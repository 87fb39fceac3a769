// Package corpus reads a directory of text files into a domain.Corpus.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"simplesearch/internal/domain"
)

// Options controls which files are loaded and how read failures are handled.
type Options struct {
	// Extensions restricts loading to files with one of these suffixes
	// (case-insensitive, e.g. ".txt"). Empty loads every file.
	Extensions []string
	// SkipUnreadable logs and skips files that cannot be read instead of
	// failing the whole load.
	SkipUnreadable bool
	Logger         *slog.Logger
}

// ResolvePath joins root and dir into the directory to scan. Leading and
// trailing separators are stripped from dir and the result always ends with a
// separator.
func ResolvePath(root, dir string) string {
	trimmed := strings.Trim(dir, "/"+string(filepath.Separator))
	sep := string(filepath.Separator)
	base := strings.TrimRight(root, "/"+sep) + sep
	if trimmed == "" {
		return base
	}
	return base + trimmed + sep
}

// Load reads every regular file directly inside path. Subdirectories are
// skipped. Files are added in lexical name order.
func Load(ctx context.Context, path string, opts Options) (*domain.Corpus, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrDirectoryNotFound, path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		full := filepath.Join(path, entry.Name())
		if isDir(entry, full) {
			logger.Debug("skipping directory", "path", full)
			continue
		}
		if !matchesExtension(entry.Name(), opts.Extensions) {
			logger.Debug("skipping file by extension", "path", full)
			continue
		}
		data, err := os.ReadFile(full)
		if err != nil {
			if opts.SkipUnreadable {
				logger.Warn("skipping unreadable file", "path", full, "error", err)
				continue
			}
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnreadableFile, full, err)
		}
		docs = append(docs, domain.Document{Name: entry.Name(), Content: string(data)})
	}

	c := domain.NewCorpus(docs...)
	logger.Info("corpus loaded",
		"path", path,
		"files", c.Len(),
		"size", humanize.Bytes(uint64(c.Bytes())))
	return c, nil
}

// isDir reports whether entry is a directory or a symlink to one.
func isDir(entry fs.DirEntry, full string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func matchesExtension(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if ext == e {
			return true
		}
	}
	return false
}
