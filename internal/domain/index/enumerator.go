package index

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/foliohq/folio/backend/internal/infrastructure/logging"
)

// Walker enumerates document files under a root directory. Matching is
// by extension; the extension set derives from a content type plus any
// explicitly configured extras. Hidden directories are skipped, as are
// paths matching the exclude globs.
type Walker struct {
	root       string
	extensions map[string]struct{}
	excludes   []string
	logger     *logging.Logger
}

// textExtensions maps plain-text document types to their extensions.
// The mimetype database resolves binary formats by magic bytes and has
// no entries for these, so they need their own table.
var textExtensions = map[string][]string{
	"text/markdown": {".md", ".markdown"},
	"text/plain":    {".txt"},
	"text/x-rst":    {".rst"},
	"text/org":      {".org"},
}

// NewWalker creates an enumerator rooted at root. contentType seeds the
// extension set (text/markdown gives .md and .markdown);
// extraExtensions supplements it. excludeGlobs are doublestar patterns
// matched against the path relative to root.
func NewWalker(root, contentType string, extraExtensions, excludeGlobs []string, logger *logging.Logger) *Walker {
	extensions := make(map[string]struct{})
	if exts, ok := textExtensions[contentType]; ok {
		for _, ext := range exts {
			extensions[ext] = struct{}{}
		}
	} else if mime := mimetype.Lookup(contentType); mime != nil && mime.Extension() != "" {
		extensions[strings.ToLower(mime.Extension())] = struct{}{}
	} else {
		logger.Warn("unknown content type, relying on configured extensions",
			zap.String("content_type", contentType),
		)
	}
	for _, ext := range extraExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = struct{}{}
	}

	return &Walker{
		root:       root,
		extensions: extensions,
		excludes:   excludeGlobs,
		logger:     logger,
	}
}

// Enumerate walks the root and returns matching file paths in sorted
// order. Unreadable subtrees are skipped, not fatal.
func (w *Walker) Enumerate(ctx context.Context) ([]string, error) {
	var (
		mu    sync.Mutex
		paths []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, w.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := entry.Name()
		if entry.IsDir() {
			if path != w.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if w.excluded(path) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if _, ok := w.extensions[strings.ToLower(filepath.Ext(name))]; !ok {
			return nil
		}
		if w.excluded(path) {
			return nil
		}

		mu.Lock()
		paths = append(paths, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// fastwalk visits in parallel; sort for a deterministic index order
	sort.Strings(paths)
	return paths, nil
}

// excluded reports whether the path's root-relative form matches any
// exclude glob.
func (w *Walker) excluded(path string) bool {
	if len(w.excludes) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
