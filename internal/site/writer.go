package site

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// Writer emits the assembled site as output artifacts: one directory with an
// index.html per page, a site index.html, and a manifest.json.
type Writer struct {
	OutputDir   string
	Clean       bool
	SiteTitle   string
	BaseURL     string
	Description string
}

// Write renders layouts and writes all artifacts. buildID and generatedAt go
// into the manifest.
func (w *Writer) Write(s *Site, buildID string, generatedAt time.Time) error {
	if w.Clean {
		if err := os.RemoveAll(w.OutputDir); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to clean output directory").
				WithContext("path", w.OutputDir).
				Build()
		}
	}
	if err := os.MkdirAll(w.OutputDir, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", w.OutputDir).
			Build()
	}

	baseURL := strings.TrimRight(w.BaseURL, "/")

	for _, page := range s.Pages {
		rendered, err := w.renderPage(page, baseURL)
		if err != nil {
			return err
		}
		dir := filepath.Join(w.OutputDir, filepath.FromSlash(page.Slug))
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create page directory").
				WithSlug(page.Slug).
				Build()
		}
		// #nosec G306 -- rendered pages are public assets
		if err := os.WriteFile(filepath.Join(dir, "index.html"), rendered, 0o644); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write page").
				WithSlug(page.Slug).
				Build()
		}
	}

	index, err := w.renderIndex(s, baseURL)
	if err != nil {
		return err
	}
	// #nosec G306 -- rendered pages are public assets
	if err := os.WriteFile(filepath.Join(w.OutputDir, "index.html"), index, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write site index").Build()
	}

	manifest, err := NewManifest(buildID, w.SiteTitle, s, generatedAt).MarshalIndent()
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal manifest").Build()
	}
	// #nosec G306 -- manifest is a public asset
	if err := os.WriteFile(filepath.Join(w.OutputDir, "manifest.json"), manifest, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write manifest").Build()
	}

	return nil
}

func (w *Writer) renderPage(page Page, baseURL string) ([]byte, error) {
	var buf bytes.Buffer
	ctx := pageContext{
		SiteTitle: w.SiteTitle,
		BaseURL:   baseURL,
		Title:     page.Title,
		Date:      page.Date,
		Draft:     page.Draft,
		Content:   template.HTML(page.HTML),
	}
	if err := pageLayout.Execute(&buf, ctx); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to execute page layout").
			WithSlug(page.Slug).
			Build()
	}
	return buf.Bytes(), nil
}

func (w *Writer) renderIndex(s *Site, baseURL string) ([]byte, error) {
	var buf bytes.Buffer
	ctx := indexContext{
		SiteTitle:   w.SiteTitle,
		Description: w.Description,
		BaseURL:     baseURL,
		Entries:     s.Index,
	}
	if err := indexLayout.Execute(&buf, ctx); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to execute index layout").Build()
	}
	return buf.Bytes(), nil
}
