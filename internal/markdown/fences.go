package markdown

import (
	"bytes"
	"fmt"
	"sort"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// ValidateFences scans a markdown body for an unterminated fenced code block.
//
// CommonMark parsers (Goldmark included) silently auto-close a fence left
// open at end of input or at the end of its enclosing container, which would
// publish part of a document as a code block. We treat that as malformed
// input instead and refuse to render. The check walks Goldmark's own parse so
// fences nested in list items and blockquotes are covered too.
func ValidateFences(body []byte) error {
	root := newConverter().Parser().Parse(text.NewReader(body))

	lines := bytes.Split(body, []byte("\n"))
	starts := make([]int, len(lines))
	off := 0
	for i, line := range lines {
		starts[i] = off
		off += len(line) + 1
	}

	openedLine := 0
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		fence, ok := n.(*gmast.FencedCodeBlock)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if line, closed := fenceClosure(lines, starts, fence); !closed {
			openedLine = line
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})

	if openedLine > 0 {
		return ferrors.MarkupError(fmt.Sprintf("unterminated code fence opened at line %d", openedLine)).
			WithContext("line", openedLine).
			Build()
	}
	return nil
}

// fenceClosure locates a fence's opening line (1-based) and reports whether a
// closing marker follows its content. Content segments exclude both fence
// lines, so the line right after the content either closes the fence or
// proves it was auto-closed.
func fenceClosure(lines [][]byte, starts []int, fence *gmast.FencedCodeBlock) (int, bool) {
	openIdx := -1
	switch {
	case fence.Lines().Len() > 0:
		openIdx = lineIndex(starts, fence.Lines().At(0).Start) - 1
	case fence.Info != nil:
		openIdx = lineIndex(starts, fence.Info.Segment.Start)
	default:
		// No info string and no content: an unterminated fence of this shape
		// swallows nothing.
		return 0, true
	}
	if openIdx < 0 || openIdx >= len(lines) {
		return 0, true
	}

	marker, length := fenceRun(lines[openIdx])
	if length == 0 {
		return 0, true
	}

	closeIdx := openIdx + 1 + fence.Lines().Len()
	if closeIdx >= len(lines) {
		return openIdx + 1, false
	}
	return openIdx + 1, closesFence(lines[closeIdx], marker, length)
}

// lineIndex returns the zero-based index of the line containing byte offset pos.
func lineIndex(starts []int, pos int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > pos }) - 1
}

// fenceRun reads the fence marker run from a fence line, ignoring any
// container prefix (list indentation, blockquote markers).
func fenceRun(line []byte) (byte, int) {
	s := trimContainerPrefix(line)
	if len(s) == 0 || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	marker := s[0]
	length := 0
	for length < len(s) && s[length] == marker {
		length++
	}
	return marker, length
}

// closesFence reports whether a line is a closing fence for the given marker:
// same character, at least as long, nothing but whitespace after the run.
func closesFence(line []byte, marker byte, length int) bool {
	c, n := fenceRun(line)
	if c != marker || n < length {
		return false
	}
	rest := bytes.TrimLeft(trimContainerPrefix(line), string(marker))
	return len(bytes.TrimSpace(rest)) == 0
}

// trimContainerPrefix strips leading whitespace and blockquote markers.
func trimContainerPrefix(line []byte) []byte {
	for len(line) > 0 {
		switch line[0] {
		case ' ', '\t', '>':
			line = line[1:]
		default:
			return line
		}
	}
	return line
}
