package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// Style captures newline shape so documents can be reassembled byte-stably.
type Style struct {
	Newline            string
	HasTrailingNewline bool
}

// ErrMissingOpeningDelimiter indicates the document did not start with a
// front-matter delimiter at all.
var ErrMissingOpeningDelimiter = errors.New("document does not start with a front-matter delimiter")

// ErrMissingClosingDelimiter indicates the document started with a front-matter
// delimiter but never closed it.
var ErrMissingClosingDelimiter = errors.New("front-matter start delimiter found but closing delimiter is missing")

// Split separates YAML front-matter (`---` delimited) from the markdown body.
//
// Unlike a generic splitter, every published document is required to carry
// front-matter: a document without an opening delimiter fails with
// ErrMissingOpeningDelimiter, and an unterminated block fails with
// ErrMissingClosingDelimiter.
func Split(content []byte) (fm []byte, body []byte, style Style, err error) {
	style = detectStyle(content)

	nl := style.Newline
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, style, ErrMissingOpeningDelimiter
	}

	fmStart := len(open)
	closeLine := []byte("---" + nl)
	if bytes.HasPrefix(content[fmStart:], closeLine) {
		bodyStart := fmStart + len(closeLine)
		return []byte{}, content[bodyStart:], style, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[fmStart:], closeSeq)
	if idx < 0 {
		return nil, nil, style, ErrMissingClosingDelimiter
	}

	fmEnd := fmStart + idx + len(nl)
	bodyStart := fmStart + idx + len(closeSeq)
	return content[fmStart:fmEnd], content[bodyStart:], style, nil
}

// Join reassembles a document from raw front-matter and body using the
// newline style captured by Split.
func Join(fm []byte, body []byte, style Style) []byte {
	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}

	delim := []byte("---" + nl)

	out := make([]byte, 0, 2*len(delim)+len(fm)+len(body))
	out = append(out, delim...)
	out = append(out, fm...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// ParseYAML parses raw YAML front-matter (without --- delimiters) into a map.
func ParseYAML(fm []byte) (map[string]any, error) {
	if len(fm) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			newline = "\n"
			break
		}
	}

	hasTrailingNewline := len(content) > 0 && (content[len(content)-1] == '\n')

	return Style{
		Newline:            newline,
		HasTrailingNewline: hasTrailingNewline,
	}
}
