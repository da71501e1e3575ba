package lint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRun_CleanContent(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "hello.md", `---
title: Hello
date: 2024-03-01
---
# Hello

See [the other one](/world/) or [upstream](https://example.org/).
`)
	writeDoc(t, dir, "world.md", `---
title: World
date: 2024-03-02
---
Body.
`)

	result, err := Run(dir)
	require.NoError(t, err)
	require.Equal(t, 2, result.Documents)
	require.True(t, result.Clean())
}

func TestRun_ReportsParseAndMarkupIssues(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "no-date.md", `---
title: No Date
---
Body.
`)
	writeDoc(t, dir, "bad-fence.md", `---
title: Bad Fence
date: 2024-01-01
---
`+"```go\nfunc main() {}\n")

	result, err := Run(dir)
	require.NoError(t, err)
	require.Len(t, result.Issues, 2)

	byKind := map[IssueKind]Issue{}
	for _, issue := range result.Issues {
		byKind[issue.Kind] = issue
	}
	require.Equal(t, "no-date", byKind[IssueParse].Slug)
	require.Equal(t, "bad-fence", byKind[IssueMarkup].Slug)
	require.Contains(t, byKind[IssueMarkup].Message, "unterminated code fence")
}

func TestRun_FlagsBrokenInternalLinks(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "hello.md", `---
title: Hello
date: 2024-03-01
---
A [missing page](/nowhere/) and an [anchor](#section).

![diagram](/also-missing/)
`)

	result, err := Run(dir)
	require.NoError(t, err)
	require.Len(t, result.Issues, 2)
	for _, issue := range result.Issues {
		require.Equal(t, IssueBrokenLink, issue.Kind)
		require.Equal(t, "hello", issue.Slug)
	}
}

func TestRun_RelativeLinksResolveAgainstSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	writeDoc(t, dir, "hello.md", `---
title: Hello
date: 2024-03-01
---
Body.
`)
	writeDoc(t, filepath.Join(dir, "notes"), "first.md", `---
title: First
date: 2024-03-02
---
A [sibling](./second/) and [one level up](../hello/).
`)
	writeDoc(t, filepath.Join(dir, "notes"), "second.md", `---
title: Second
date: 2024-03-03
---
Body.
`)

	result, err := Run(dir)
	require.NoError(t, err)
	require.Equal(t, 3, result.Documents)
	require.True(t, result.Clean())
}

func TestRun_RelativeLinkToMissingDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o755))
	writeDoc(t, filepath.Join(dir, "notes"), "first.md", `---
title: First
date: 2024-03-02
---
A [vanished sibling](./gone/).
`)

	result, err := Run(dir)
	require.NoError(t, err)
	require.Len(t, result.Issues, 1)
	require.Equal(t, IssueBrokenLink, result.Issues[0].Kind)
	require.Equal(t, "notes/first", result.Issues[0].Slug)
}

func TestRun_ExternalLinksIgnored(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "hello.md", `---
title: Hello
date: 2024-03-01
---
[site](https://example.org/anything) and [mail](mailto:me@example.org).
`)

	result, err := Run(dir)
	require.NoError(t, err)
	require.True(t, result.Clean())
}
