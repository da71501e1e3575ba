package site

import (
	"sort"
	"time"

	"git.ormside.net/rke/blogbuilder/internal/docmodel"
	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/markdown"
)

// Options controls assembly policy.
type Options struct {
	// IncludeDrafts renders per-page output for drafts. The index never lists
	// drafts regardless of this option.
	IncludeDrafts bool
	// KeepGoing collects document-local failures as Problems instead of
	// aborting on the first one. Non-document failures always abort.
	KeepGoing bool
}

// Summary is one index entry: identifier, title, date.
type Summary struct {
	Slug  string    `json:"slug"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"`
}

// Page is a rendered document.
type Page struct {
	Slug  string
	Title string
	Date  time.Time
	Draft bool
	HTML  []byte
}

// Problem records a document that failed to render under KeepGoing.
type Problem struct {
	Slug string
	Err  error
}

// Site is the result of assembling one build: the ordered index plus the
// rendered pages. Nothing here is persisted between builds.
type Site struct {
	Pages         []Page
	Index         []Summary
	DraftsSkipped int
	Problems      []Problem
}

// Assemble renders the given documents and produces the site index.
//
// Ordering is deterministic: date descending, ties broken by slug ascending.
// Drafts never appear in the index; they are rendered only when
// opts.IncludeDrafts is set.
func Assemble(docs []*docmodel.Document, opts Options) (*Site, error) {
	ordered := make([]*docmodel.Document, len(docs))
	copy(ordered, docs)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date().Equal(ordered[j].Date()) {
			return ordered[i].Date().After(ordered[j].Date())
		}
		return ordered[i].Slug() < ordered[j].Slug()
	})

	out := &Site{}
	seen := make(map[string]struct{}, len(ordered))

	for _, doc := range ordered {
		if _, dup := seen[doc.Slug()]; dup {
			return nil, ferrors.BuildError("duplicate document identifier").
				WithSlug(doc.Slug()).
				Build()
		}
		seen[doc.Slug()] = struct{}{}

		if doc.Draft() && !opts.IncludeDrafts {
			out.DraftsSkipped++
			continue
		}

		html, err := markdown.Render(doc.Body(), markdown.Options{})
		if err != nil {
			err = attachSlug(err, doc.Slug())
			if opts.KeepGoing && ferrors.IsDocumentError(err) {
				out.Problems = append(out.Problems, Problem{Slug: doc.Slug(), Err: err})
				continue
			}
			return nil, err
		}

		out.Pages = append(out.Pages, Page{
			Slug:  doc.Slug(),
			Title: doc.Title(),
			Date:  doc.Date(),
			Draft: doc.Draft(),
			HTML:  html,
		})
		if !doc.Draft() {
			out.Index = append(out.Index, Summary{Slug: doc.Slug(), Title: doc.Title(), Date: doc.Date()})
		}
	}

	return out, nil
}

func attachSlug(err error, slug string) error {
	if classified, ok := ferrors.AsClassified(err); ok {
		return classified.WithContext("slug", slug)
	}
	return err
}
