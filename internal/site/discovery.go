package site

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/logfields"
)

// Source is a discovered content file, not yet parsed.
type Source struct {
	Path    string // absolute path
	RelPath string // path relative to the content root, forward slashes
}

// Discover walks the content directory and returns markdown sources in
// deterministic (path-sorted) order. Hidden files and directories and
// anything under an underscore-prefixed directory are skipped.
func Discover(contentDir string) ([]Source, error) {
	info, err := os.Stat(contentDir)
	if err != nil || !info.IsDir() {
		return nil, ferrors.ConfigError("content directory not found or not a directory").
			WithContext("path", contentDir).
			Build()
	}

	var sources []Source
	walkErr := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != contentDir && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".md" && ext != ".markdown" {
			slog.Debug("skipping non-markdown file", logfields.Path(path))
			return nil
		}

		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{Path: path, RelPath: filepath.ToSlash(rel)})
		return nil
	})
	if walkErr != nil {
		return nil, ferrors.WrapError(walkErr, ferrors.CategoryFileSystem, "failed to walk content directory").
			WithContext("path", contentDir).
			Build()
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].RelPath < sources[j].RelPath })
	return sources, nil
}
