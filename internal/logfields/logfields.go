package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDurationMS = "duration_ms"
	KeyPages      = "pages"
	KeyDrafts     = "drafts"
	KeyOutcome    = "outcome"
	KeyURL        = "url"
	KeyBranch     = "branch"
	KeySubject    = "subject"
	KeyPort       = "port"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr	{ return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr	{ return slog.String(KeyStage, name) }
func Slug(s string) slog.Attr		{ return slog.String(KeySlug, s) }
func Path(p string) slog.Attr		{ return slog.String(KeyPath, p) }
func File(f string) slog.Attr		{ return slog.String(KeyFile, f) }
func DurationMS(ms float64) slog.Attr	{ return slog.Float64(KeyDurationMS, ms) }
func Pages(n int) slog.Attr		{ return slog.Int(KeyPages, n) }
func Drafts(n int) slog.Attr		{ return slog.Int(KeyDrafts, n) }
func Outcome(o string) slog.Attr	{ return slog.String(KeyOutcome, o) }
func URL(u string) slog.Attr		{ return slog.String(KeyURL, u) }
func Branch(b string) slog.Attr		{ return slog.String(KeyBranch, b) }
func Subject(s string) slog.Attr	{ return slog.String(KeySubject, s) }
func Port(p int) slog.Attr		{ return slog.Int(KeyPort, p) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
