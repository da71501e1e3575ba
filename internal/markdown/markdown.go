// Package markdown renders document bodies to HTML and provides the
// analysis helpers (fence validation, link extraction) built on the same
// Goldmark parse.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// Options controls how markdown is parsed and rendered.
//
// For now this is intentionally small; it exists so we can evolve rendering
// behavior (extensions/settings) without rewriting call sites.
type Options struct{}

func newConverter() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
}

// Render converts a markdown body (front-matter already removed) to HTML.
//
// Fenced code block content passes through byte-exactly apart from HTML
// entity escaping; the optional language tag only becomes a language-* class.
// A body with an unterminated fence fails with a markup error naming the
// construct and its line; there is no partial output.
func Render(body []byte, _ Options) ([]byte, error) {
	if err := ValidateFences(body); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := newConverter().Convert(body, &buf); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryMarkup, "failed to render markdown").Build()
	}
	return buf.Bytes(), nil
}
