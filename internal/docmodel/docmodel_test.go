package docmodel

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

func TestParse_ValidDocument(t *testing.T) {
	content := []byte("---\ntitle: Handle Pattern\ndate: \"2021-01-31\"\ndraft: true\n---\n# Hi\n")

	doc, err := Parse("posts/handle-pattern.md", content)
	require.NoError(t, err)
	require.Equal(t, "posts/handle-pattern", doc.Slug())
	require.Equal(t, "Handle Pattern", doc.Title())
	require.Equal(t, time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC), doc.Date())
	require.True(t, doc.Draft())
	require.Equal(t, []byte("# Hi\n"), doc.Body())
}

func TestParse_MissingDate_FailsWithSlugAttached(t *testing.T) {
	content := []byte("---\ntitle: T\n---\nbody\n")

	_, err := Parse("posts/undated.md", content)
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryFrontmatter, classified.Category())
	require.Equal(t, "posts/undated", classified.Slug())
}

func TestParse_UnterminatedFrontmatter_Fails(t *testing.T) {
	content := []byte("---\ntitle: T\ndate: \"2021-01-31\"\nbody\n")

	_, err := Parse("posts/broken.md", content)
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontmatter))
}

func TestParse_BodyIsCopied(t *testing.T) {
	content := []byte("---\ntitle: T\ndate: \"2021-01-31\"\n---\nbody\n")

	doc, err := Parse("a.md", content)
	require.NoError(t, err)

	b := doc.Body()
	b[0] = 'X'
	require.Equal(t, []byte("body\n"), doc.Body())
}

func TestParseFile_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("---\ntitle: T\ndate: \"2021-01-31\"\n---\nhello\n"), 0o644))

	doc, err := ParseFile(path, "post.md")
	require.NoError(t, err)
	require.Equal(t, "post", doc.Slug())
}

func TestParseFile_MissingFile_FailsAsFilesystemError(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.md"), "absent.md")
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFileSystem))
}
