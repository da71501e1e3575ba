package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderProducesCategoryAndSeverity(t *testing.T) {
	err := FrontmatterError("missing required field").WithSlug("hello-world").Build()

	require.True(t, err.IsCategory(CategoryFrontmatter))
	require.Equal(t, SeverityError, err.Severity())
	require.Equal(t, "hello-world", err.Slug())
	require.Contains(t, err.Error(), "frontmatter")
}

func TestWrapErrorUnwrapsToCause(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := WrapError(cause, CategoryDate, "cannot parse date").WithSlug("post").Build()

	require.True(t, stderrors.Is(err, cause))
	require.Equal(t, CategoryDate, GetCategory(err))
}

func TestIsDocumentError(t *testing.T) {
	require.True(t, IsDocumentError(MarkupError("unterminated fence").Build()))
	require.True(t, IsDocumentError(DateError("bad date").Build()))
	require.True(t, IsDocumentError(FrontmatterError("missing title").Build()))
	require.False(t, IsDocumentError(ConfigError("no config").Build()))
	require.False(t, IsDocumentError(stderrors.New("plain")))
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := BuildError("write failed").Build()
	derived := base.WithContext("path", "/out")

	_, ok := base.Context().Get("path")
	require.False(t, ok)
	p, _ := derived.Context().GetString("path")
	require.Equal(t, "/out", p)
}
