package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

func TestParseRecord_AllFields(t *testing.T) {
	rec, err := ParseRecord([]byte("title: \"T\"\ndate: \"2021-01-31\"\ndraft: false\n"))
	require.NoError(t, err)
	require.Equal(t, "T", rec.Title)
	require.Equal(t, time.Date(2021, 1, 31, 0, 0, 0, 0, time.UTC), rec.Date)
	require.False(t, rec.Draft)
}

func TestParseRecord_NativeYAMLDate(t *testing.T) {
	rec, err := ParseRecord([]byte("title: T\ndate: 2021-01-31\n"))
	require.NoError(t, err)
	require.Equal(t, 2021, rec.Date.Year())
	require.Equal(t, time.January, rec.Date.Month())
	require.Equal(t, 31, rec.Date.Day())
}

func TestParseRecord_DraftDefaultsFalse(t *testing.T) {
	rec, err := ParseRecord([]byte("title: T\ndate: \"2021-01-31\"\n"))
	require.NoError(t, err)
	require.False(t, rec.Draft)
}

func TestParseRecord_UnknownKeysTolerated(t *testing.T) {
	rec, err := ParseRecord([]byte("title: T\ndate: \"2021-01-31\"\ntags: [plt, essays]\nseries: handles\n"))
	require.NoError(t, err)
	require.Contains(t, rec.Extra, "tags")
	require.Equal(t, "handles", rec.Extra["series"])
}

func TestParseRecord_MissingDate_FailsAsFrontmatterError(t *testing.T) {
	_, err := ParseRecord([]byte("title: T\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontmatter))
}

func TestParseRecord_MissingTitle_FailsAsFrontmatterError(t *testing.T) {
	_, err := ParseRecord([]byte("date: \"2021-01-31\"\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontmatter))
}

func TestParseRecord_BadDate_FailsAsDateError(t *testing.T) {
	cases := []string{
		"title: T\ndate: \"31/01/2021\"\n",
		"title: T\ndate: \"not a date\"\n",
		"title: T\ndate: [2021]\n",
	}
	for _, input := range cases {
		_, err := ParseRecord([]byte(input))
		require.Error(t, err, input)
		require.True(t, ferrors.HasCategory(err, ferrors.CategoryDate), input)
	}
}

func TestParseRecord_BadDraft_Fails(t *testing.T) {
	_, err := ParseRecord([]byte("title: T\ndate: \"2021-01-31\"\ndraft: maybe\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontmatter))
}

func TestParseRecord_InvalidYAML_Fails(t *testing.T) {
	_, err := ParseRecord([]byte("title: [unclosed\n"))
	require.Error(t, err)
	require.True(t, ferrors.HasCategory(err, ferrors.CategoryFrontmatter))
}
