// Package lint checks the content store without writing output: front-matter
// and markup problems, plus internal links pointing at documents that do not
// exist.
package lint

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"git.ormside.net/rke/blogbuilder/internal/docmodel"
	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
	"git.ormside.net/rke/blogbuilder/internal/markdown"
	"git.ormside.net/rke/blogbuilder/internal/site"
)

// IssueKind classifies lint findings.
type IssueKind string

const (
	IssueParse      IssueKind = "parse"
	IssueMarkup     IssueKind = "markup"
	IssueBrokenLink IssueKind = "broken_link"
)

// Issue is one lint finding for one document.
type Issue struct {
	Slug    string
	Kind    IssueKind
	Message string
}

// Result summarizes a lint run.
type Result struct {
	Documents int
	Issues    []Issue
}

// Clean reports whether no issues were found.
func (r *Result) Clean() bool { return len(r.Issues) == 0 }

// Run lints every document under contentDir.
func Run(contentDir string) (*Result, error) {
	sources, err := site.Discover(contentDir)
	if err != nil {
		return nil, err
	}

	result := &Result{Documents: len(sources)}

	type rendered struct {
		doc  *docmodel.Document
		html []byte
	}
	var pages []rendered
	slugs := make(map[string]struct{}, len(sources))

	for _, src := range sources {
		doc, err := docmodel.ParseFile(src.Path, src.RelPath)
		if err != nil {
			result.Issues = append(result.Issues, Issue{
				Slug:    docmodel.SlugFromPath(src.RelPath),
				Kind:    IssueParse,
				Message: err.Error(),
			})
			continue
		}
		slugs[doc.Slug()] = struct{}{}

		out, err := markdown.Render(doc.Body(), markdown.Options{})
		if err != nil {
			kind := IssueMarkup
			if !ferrors.HasCategory(err, ferrors.CategoryMarkup) {
				kind = IssueParse
			}
			result.Issues = append(result.Issues, Issue{Slug: doc.Slug(), Kind: kind, Message: err.Error()})
			continue
		}
		pages = append(pages, rendered{doc: doc, html: out})
	}

	for _, p := range pages {
		for _, dest := range collectDestinations(p.doc.Body(), p.html) {
			target, internal := internalTarget(p.doc.Slug(), dest)
			if !internal {
				continue
			}
			if _, ok := slugs[target]; !ok {
				result.Issues = append(result.Issues, Issue{
					Slug:    p.doc.Slug(),
					Kind:    IssueBrokenLink,
					Message: fmt.Sprintf("link target %q does not exist", dest),
				})
			}
		}
	}

	sort.SliceStable(result.Issues, func(i, j int) bool { return result.Issues[i].Slug < result.Issues[j].Slug })
	return result, nil
}

// collectDestinations merges anchor/img destinations from the rendered HTML
// with reference definitions from the markdown source (goldmark drops unused
// definitions from output, but a dangling definition is still worth flagging).
func collectDestinations(body, renderedHTML []byte) []string {
	seen := map[string]struct{}{}
	var dests []string
	add := func(d string) {
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dests = append(dests, d)
	}

	if root, err := html.Parse(strings.NewReader(string(renderedHTML))); err == nil {
		var walk func(*html.Node)
		walk = func(n *html.Node) {
			if n.Type == html.ElementNode {
				for _, attr := range n.Attr {
					if (n.Data == "a" && attr.Key == "href") || (n.Data == "img" && attr.Key == "src") {
						add(attr.Val)
					}
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
		walk(root)
	}

	if links, err := markdown.ExtractLinks(body, markdown.Options{}); err == nil {
		for _, l := range links {
			if l.Kind == markdown.LinkKindReferenceDefinition {
				add(l.Destination)
			}
		}
	}

	return dests
}

// internalTarget reports whether dest is a site-internal document link and
// returns the slug it must resolve to. Relative destinations resolve against
// the linking document's directory, the way authors write links between
// neighboring files in the content tree.
func internalTarget(sourceSlug, dest string) (string, bool) {
	u, err := url.Parse(dest)
	if err != nil {
		return "", false
	}
	if u.Scheme != "" || u.Host != "" || u.Opaque != "" {
		return "", false
	}
	p := u.Path
	if p == "" {
		// Pure fragment.
		return "", false
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Join("/", path.Dir(sourceSlug), p)
	}
	target := strings.Trim(path.Clean(p), "/")
	if target == "" {
		// Site root.
		return "", false
	}
	return target, true
}
