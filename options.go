package viewcraft

import (
	"log/slog"

	"git.home.luguber.info/inful/viewcraft/collection"
	"git.home.luguber.info/inful/viewcraft/layout"
	"git.home.luguber.info/inful/viewcraft/metrics"
)

type config struct {
	layoutOpen    string
	layoutClose   string
	layoutTag     string
	defaultLayout string
	defaultExt    string
	mergePartials bool
	preferLocals  bool
	silent        bool
	renameKey     collection.RenameKey
	logger        *slog.Logger
	recorder      metrics.Recorder
}

func defaultConfig() config {
	return config{
		layoutOpen:  layout.DefaultOpenDelim,
		layoutClose: layout.DefaultCloseDelim,
		layoutTag:   layout.DefaultTag,
		defaultExt:  "tmpl",
		logger:      slog.Default(),
		recorder:    metrics.NoopRecorder{},
	}
}

// Option configures a Templates instance.
type Option func(*config)

// LayoutDelims overrides the body-marker delimiter pair.
func LayoutDelims(open, close string) Option {
	return func(c *config) { c.layoutOpen, c.layoutClose = open, close }
}

// LayoutTag overrides the body-marker token name.
func LayoutTag(tag string) Option {
	return func(c *config) { c.layoutTag = tag }
}

// DefaultLayout sets the fallback layout applied to renderable documents
// that declare none.
func DefaultLayout(name string) Option {
	return func(c *config) { c.defaultLayout = name }
}

// DefaultExtension sets the engine extension for inline documents.
func DefaultExtension(ext string) Option {
	return func(c *config) { c.defaultExt = ext }
}

// MergePartials flattens all partials under one `partials` namespace
// instead of per-collection namespaces.
func MergePartials(enabled bool) Option {
	return func(c *config) { c.mergePartials = enabled }
}

// PreferLocals makes front matter data win over load-time locals during
// context merging. The default is the opposite: locals win, favoring
// explicit caller intent.
func PreferLocals(enabled bool) Option {
	return func(c *config) { c.preferLocals = enabled }
}

// Silent makes render-time errors accumulate on the instance (see
// Templates.Errors) in addition to being returned.
func Silent(enabled bool) Option {
	return func(c *config) { c.silent = enabled }
}

// RenameKey overrides the lookup-key normalization function.
func RenameKey(fn collection.RenameKey) Option {
	return func(c *config) { c.renameKey = fn }
}

// Logger sets the instance logger.
func Logger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Recorder sets the metrics recorder.
func Recorder(r metrics.Recorder) Option {
	return func(c *config) { c.recorder = r }
}
