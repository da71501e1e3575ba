package frontmatter

import (
	"strconv"
	"time"

	ferrors "git.ormside.net/rke/blogbuilder/internal/foundation/errors"
)

// Record is the typed front-matter of a document.
//
// Unknown keys are tolerated and kept in Extra so later tooling (themes,
// feeds) can pick them up without a schema change here.
type Record struct {
	Title string
	Date  time.Time
	Draft bool
	Extra map[string]any
}

// DateLayout is the calendar date form accepted in front-matter.
const DateLayout = "2006-01-02"

// ParseRecord parses raw YAML front-matter into a Record.
//
// title and date are required; draft defaults to false. The date field is
// accepted either as an ISO calendar date string or as a native YAML
// timestamp (yaml.v3 hands back time.Time for unquoted dates).
func ParseRecord(fm []byte) (*Record, error) {
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryFrontmatter, "front-matter is not valid YAML").Build()
	}

	rec := &Record{Extra: map[string]any{}}

	for key, value := range fields {
		switch key {
		case "title":
			s, ok := value.(string)
			if !ok || s == "" {
				return nil, ferrors.FrontmatterError("title must be a non-empty string").Build()
			}
			rec.Title = s
		case "date":
			d, err := parseDate(value)
			if err != nil {
				return nil, err
			}
			rec.Date = d
		case "draft":
			d, err := parseDraft(value)
			if err != nil {
				return nil, err
			}
			rec.Draft = d
		default:
			rec.Extra[key] = value
		}
	}

	if rec.Title == "" {
		return nil, ferrors.FrontmatterError("missing required field: title").Build()
	}
	if rec.Date.IsZero() {
		return nil, ferrors.FrontmatterError("missing required field: date").Build()
	}

	return rec, nil
}

func parseDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		d, err := time.Parse(DateLayout, v)
		if err != nil {
			return time.Time{}, ferrors.WrapError(err, ferrors.CategoryDate, "date must be an ISO calendar date (YYYY-MM-DD)").Build()
		}
		return d, nil
	default:
		return time.Time{}, ferrors.DateError("date must be a calendar date, not " + typeName(value)).Build()
	}
}

func parseDraft(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, ferrors.FrontmatterError("draft must be a boolean").Build()
		}
		return b, nil
	default:
		return false, ferrors.FrontmatterError("draft must be a boolean, not " + typeName(value)).Build()
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case int, int64, uint64, float64:
		return "number"
	case map[string]any:
		return "mapping"
	case []any:
		return "sequence"
	default:
		return "unexpected value"
	}
}
