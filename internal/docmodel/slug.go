package docmodel

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics: decompose, drop combining marks, recompose.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// SlugFromPath derives a document slug from its path relative to the content
// root: the extension is dropped, each path segment is Unicode-folded,
// lowercased and reduced to [a-z0-9-], and segments are re-joined with '/'.
//
// The derivation is deterministic so that a document keeps its identity (and
// its URL) across builds.
func SlugFromPath(relPath string) string {
	p := strings.TrimSuffix(path.Clean(strings.ReplaceAll(relPath, "\\", "/")), path.Ext(relPath))
	segments := strings.Split(p, "/")

	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || seg == "." {
			continue
		}
		if s := slugifySegment(seg); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

func slugifySegment(seg string) string {
	folded, _, err := transform.String(foldTransformer, seg)
	if err != nil {
		// Fold failures leave the segment as-is; the character filter below
		// still guarantees a clean slug.
		folded = seg
	}

	var b strings.Builder
	lastHyphen := true // suppress leading hyphens
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
