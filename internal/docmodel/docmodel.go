// Package docmodel centralizes the split/parse workflow for source documents
// so that callers don't re-implement boundary handling and slug derivation.
package docmodel

import (
	"os"
	"time"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/frontmatter"
)

// Document is a parsed source document: typed front-matter plus markdown body.
//
// A Document is immutable once parsed for a given build; the slug is its
// identity across the content store.
type Document struct {
	slug   string
	record *frontmatter.Record
	body   []byte
	style  frontmatter.Style
}

// Parse parses raw file content into a Document. relPath is the path of the
// file relative to the content root; it determines the slug.
func Parse(relPath string, content []byte) (*Document, error) {
	slug := SlugFromPath(relPath)

	fmRaw, body, style, err := frontmatter.Split(content)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFrontmatter, "failed to split front-matter").
			WithSlug(slug).
			Build()
	}

	rec, err := frontmatter.ParseRecord(fmRaw)
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("slug", slug)
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFrontmatter, "failed to parse front-matter").
			WithSlug(slug).
			Build()
	}

	bodyCopy := append([]byte(nil), body...)
	return &Document{slug: slug, record: rec, body: bodyCopy, style: style}, nil
}

// ParseFile reads a file from disk and parses it into a Document. relPath is
// used for slug derivation, path for reading.
func ParseFile(path, relPath string) (*Document, error) {
	// #nosec G304 -- path comes from internal discovery walks.
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}
	return Parse(relPath, content)
}

// Slug returns the document's identifier.
func (d *Document) Slug() string { return d.slug }

// Title returns the front-matter title.
func (d *Document) Title() string { return d.record.Title }

// Date returns the publication date.
func (d *Document) Date() time.Time { return d.record.Date }

// Draft reports whether the document is flagged as a draft.
func (d *Document) Draft() bool { return d.record.Draft }

// Extra returns front-matter fields beyond the recognized set.
func (d *Document) Extra() map[string]any { return d.record.Extra }

// Body returns a copy of the markdown body bytes (front-matter removed).
func (d *Document) Body() []byte {
	out := make([]byte, len(d.body))
	copy(out, d.body)
	return out
}

// Style returns the newline style detected while splitting.
func (d *Document) Style() frontmatter.Style { return d.style }
