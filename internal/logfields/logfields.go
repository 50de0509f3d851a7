// Package logfields defines canonical log field name constants to avoid
// drift across packages.
package logfields

import "log/slog"

const (
	KeyPath       = "path"
	KeyKey        = "document_key"
	KeyCollection = "collection"
	KeyHook       = "hook"
	KeyLayout     = "layout"
	KeyEngine     = "engine"
	KeyPattern    = "pattern"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Granular helpers returning slog.Attr so callers can compose.
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Key(k string) slog.Attr          { return slog.String(KeyKey, k) }
func Collection(c string) slog.Attr   { return slog.String(KeyCollection, c) }
func Hook(h string) slog.Attr         { return slog.String(KeyHook, h) }
func Layout(l string) slog.Attr       { return slog.String(KeyLayout, l) }
func Engine(e string) slog.Attr       { return slog.String(KeyEngine, e) }
func Pattern(p string) slog.Attr      { return slog.String(KeyPattern, p) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
