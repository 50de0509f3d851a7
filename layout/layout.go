// Package layout resolves a document's declared layout chain and wraps its
// content by substituting it for the body-marker token in each layout.
package layout

import (
	"log/slog"
	"regexp"

	"git.home.luguber.info/inful/viewcraft/collection"
	"git.home.luguber.info/inful/viewcraft/document"
	"git.home.luguber.info/inful/viewcraft/internal/logfields"
)

const (
	// DefaultOpenDelim and DefaultCloseDelim bound the body marker.
	DefaultOpenDelim  = "{%"
	DefaultCloseDelim = "%}"
	// DefaultTag is the body-marker token name.
	DefaultTag = "body"
)

// Resolver applies layout chains from the registry's layout-role
// collections.
type Resolver struct {
	reg    *collection.Registry
	marker *regexp.Regexp
	// def names a fallback layout applied to renderable documents that
	// declare none.
	def    string
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	open, close, tag string
	def              string
	logger           *slog.Logger
}

// WithDelims overrides the marker delimiter pair.
func WithDelims(open, close string) Option {
	return func(o *options) { o.open, o.close = open, close }
}

// WithTag overrides the body-marker token name.
func WithTag(tag string) Option {
	return func(o *options) { o.tag = tag }
}

// WithDefault sets the fallback layout for renderable documents.
func WithDefault(name string) Option {
	return func(o *options) { o.def = name }
}

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// NewResolver creates a resolver over the registry's layout collections.
func NewResolver(reg *collection.Registry, opts ...Option) *Resolver {
	o := options{open: DefaultOpenDelim, close: DefaultCloseDelim, tag: DefaultTag}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	marker := regexp.MustCompile(regexp.QuoteMeta(o.open) + `\s*` + regexp.QuoteMeta(o.tag) + `\s*` + regexp.QuoteMeta(o.close))
	return &Resolver{reg: reg, marker: marker, def: o.def, logger: o.logger}
}

// Apply wraps the document's content with its resolved layout chain and
// returns the final content. Wrapping happens at most once: a document
// already marked applied returns its content unchanged without re-running
// chain resolution.
//
// A layout name that resolves to no known layout document terminates the
// chain with the content produced so far. That is not an error.
func (r *Resolver) Apply(doc *document.Document, ctx map[string]any) (string, error) {
	if doc.Options.LayoutApplied {
		return doc.Content, nil
	}

	name, disabled := r.startName(doc, ctx)
	if disabled || name == "" {
		doc.Options.LayoutApplied = true
		return doc.Content, nil
	}

	layouts := r.candidates()
	content := doc.Content
	var trace []document.LayoutEntry
	seen := map[string]bool{}

	for name != "" && !seen[name] {
		layoutDoc, ok := layouts[name]
		if !ok {
			r.logger.Debug("layout not found, terminating chain",
				logfields.Layout(name), logfields.Path(doc.Path))
			break
		}
		seen[name] = true

		content = r.marker.ReplaceAllLiteralString(layoutDoc.Content, content)
		trace = append(trace, document.LayoutEntry{Name: name, Content: content})

		name = parentName(layoutDoc)
	}

	doc.Content = content
	doc.LayoutStack = trace
	doc.Options.LayoutApplied = true
	return content, nil
}

// startName determines the first layout name using, in order: the document
// Layout field, front matter, the rendering context, document options, and
// document locals. disabled reports an explicit layout=false.
func (r *Resolver) startName(doc *document.Document, ctx map[string]any) (string, bool) {
	sources := []any{doc.Layout, doc.Data["layout"], ctx["layout"], doc.Options.Layout, doc.Locals["layout"]}
	if doc.Options.NoLayout {
		return "", true
	}
	for _, src := range sources {
		name, disabled, set := layoutValue(src)
		if disabled {
			return "", true
		}
		if set {
			return name, false
		}
	}
	if r.def != "" && r.isRenderable(doc) {
		return r.def, false
	}
	return "", false
}

func parentName(layoutDoc *document.Document) string {
	sources := []any{layoutDoc.Layout, layoutDoc.Data["layout"], layoutDoc.Options.Layout, layoutDoc.Locals["layout"]}
	if layoutDoc.Options.NoLayout {
		return ""
	}
	for _, src := range sources {
		name, disabled, set := layoutValue(src)
		if disabled {
			return ""
		}
		if set {
			return name
		}
	}
	return ""
}

// layoutValue interprets one layout source: a non-empty string selects a
// layout, boolean false disables wrapping explicitly.
func layoutValue(src any) (name string, disabled bool, set bool) {
	switch v := src.(type) {
	case string:
		if v != "" {
			return v, false, true
		}
	case bool:
		if !v {
			return "", true, true
		}
	}
	return "", false, false
}

// candidates merges all layout-role collections into one lookup set. The
// first-registered collection wins on key collision.
func (r *Resolver) candidates() map[string]*document.Document {
	out := map[string]*document.Document{}
	for _, coll := range r.reg.ByRole(collection.Layout) {
		for _, key := range coll.Keys() {
			if _, taken := out[key]; taken {
				continue
			}
			if doc, ok := coll.Get(key); ok {
				out[key] = doc
			}
		}
	}
	return out
}

func (r *Resolver) isRenderable(doc *document.Document) bool {
	if doc.Collection == "" {
		return true
	}
	coll, ok := r.reg.Collection(doc.Collection)
	return ok && coll.HasRole(collection.Renderable)
}
