package site

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.ormside.net/rke/blogbuilder/internal/docmodel"
	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

func mustDoc(t *testing.T, relPath, title, date string, draft bool, body string) *docmodel.Document {
	t.Helper()
	content := fmt.Sprintf("---\ntitle: %q\ndate: %q\ndraft: %v\n---\n%s", title, date, draft, body)
	doc, err := docmodel.Parse(relPath, []byte(content))
	require.NoError(t, err)
	return doc
}

func TestAssemble_DraftsNeverInIndex(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "a.md", "A", "2021-03-01", false, "a\n"),
		mustDoc(t, "b.md", "B", "2021-02-01", true, "b\n"),
		mustDoc(t, "c.md", "C", "2021-01-01", false, "c\n"),
	}

	for _, includeDrafts := range []bool{false, true} {
		s, err := Assemble(docs, Options{IncludeDrafts: includeDrafts})
		require.NoError(t, err)

		for _, entry := range s.Index {
			require.NotEqual(t, "b", entry.Slug, "draft must never appear in index (includeDrafts=%v)", includeDrafts)
		}
		require.Len(t, s.Index, 2)
	}
}

func TestAssemble_IncludeDraftsRendersDraftPages(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "post.md", "P", "2021-01-01", false, "x\n"),
		mustDoc(t, "wip.md", "W", "2021-01-02", true, "y\n"),
	}

	s, err := Assemble(docs, Options{IncludeDrafts: false})
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)
	require.Equal(t, 1, s.DraftsSkipped)

	s, err = Assemble(docs, Options{IncludeDrafts: true})
	require.NoError(t, err)
	require.Len(t, s.Pages, 2)
	require.Zero(t, s.DraftsSkipped)
	require.Len(t, s.Index, 1)
}

func TestAssemble_NonDraftsAppearExactlyOnce(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "one.md", "One", "2020-05-05", false, "1\n"),
		mustDoc(t, "two.md", "Two", "2020-05-05", false, "2\n"),
		mustDoc(t, "three.md", "Three", "2019-01-01", false, "3\n"),
	}

	s, err := Assemble(docs, Options{})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, e := range s.Index {
		counts[e.Slug]++
	}
	for _, slug := range []string{"one", "two", "three"} {
		require.Equal(t, 1, counts[slug])
	}
}

func TestAssemble_OrderingDateDescSlugAsc(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "zeta.md", "Z", "2021-06-01", false, "z\n"),
		mustDoc(t, "beta.md", "B", "2021-06-01", false, "b\n"),
		mustDoc(t, "old.md", "O", "2018-01-01", false, "o\n"),
		mustDoc(t, "newest.md", "N", "2022-12-31", false, "n\n"),
	}

	s, err := Assemble(docs, Options{})
	require.NoError(t, err)

	for i := 1; i < len(s.Index); i++ {
		a, b := s.Index[i-1], s.Index[i]
		require.False(t, a.Date.Before(b.Date), "index must be date-descending")
		if a.Date.Equal(b.Date) {
			require.LessOrEqual(t, a.Slug, b.Slug, "ties must break by slug ascending")
		}
	}
	require.Equal(t, "newest", s.Index[0].Slug)
	require.Equal(t, "beta", s.Index[1].Slug)
	require.Equal(t, "zeta", s.Index[2].Slug)
	require.Equal(t, "old", s.Index[3].Slug)
}

func TestAssemble_RendersHeadingAndIndexSummary(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "hi.md", "T", "2021-01-31", false, "# Hi\n"),
	}

	s, err := Assemble(docs, Options{})
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)
	require.Contains(t, string(s.Pages[0].HTML), "<h1>Hi</h1>")
	require.Equal(t, Summary{Slug: "hi", Title: "T", Date: time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC)}, s.Index[0])
}

func TestAssemble_MarkupFailureCarriesSlug(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "broken.md", "B", "2021-01-01", false, "```go\nnot closed\n"),
	}

	_, err := Assemble(docs, Options{})
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryMarkup, classified.Category())
	require.Equal(t, "broken", classified.Slug())
}

func TestAssemble_KeepGoingCollectsProblems(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "good.md", "G", "2021-01-02", false, "fine\n"),
		mustDoc(t, "broken.md", "B", "2021-01-01", false, "```go\nnot closed\n"),
	}

	s, err := Assemble(docs, Options{KeepGoing: true})
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)
	require.Len(t, s.Problems, 1)
	require.Equal(t, "broken", s.Problems[0].Slug)
}

func TestAssemble_DuplicateSlugFails(t *testing.T) {
	docs := []*docmodel.Document{
		mustDoc(t, "same.md", "A", "2021-01-01", false, "a\n"),
		mustDoc(t, "same.markdown", "B", "2021-01-02", false, "b\n"),
	}

	_, err := Assemble(docs, Options{})
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryBuild))
}
