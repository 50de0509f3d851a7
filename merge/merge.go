// Package merge computes the final rendering context for a document from
// its precedence-ordered sources and merges partial content into it.
package merge

import (
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/viewcraft/collection"
	"git.home.luguber.info/inful/viewcraft/document"
	"git.home.luguber.info/inful/viewcraft/internal/logfields"
	"git.home.luguber.info/inful/viewcraft/layout"
	"git.home.luguber.info/inful/viewcraft/middleware"
)

// FlattenedNamespace is the single namespace partials merge under when
// MergePartials is enabled.
const FlattenedNamespace = "partials"

// Merger builds rendering contexts. Precedence, lowest to highest: global
// data, collection options, document options, document data/locals (order
// controlled by PreferLocals), merged partial content, call-site locals.
type Merger struct {
	reg  *collection.Registry
	disp *middleware.Dispatcher
	res  *layout.Resolver

	// PreferLocals flips the data/locals pair so front matter wins over
	// load-time locals. The default favors explicit caller intent:
	// locals win.
	PreferLocals bool

	// MergePartials flattens all partials under one `partials` namespace
	// instead of per-collection namespaces.
	MergePartials bool

	mu      sync.Mutex
	globals map[string]any
	cache   map[string]map[string]any

	logger *slog.Logger
}

// New creates a merger over the given registry, dispatcher, and layout
// resolver.
func New(reg *collection.Registry, disp *middleware.Dispatcher, res *layout.Resolver, logger *slog.Logger) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Merger{
		reg:     reg,
		disp:    disp,
		res:     res,
		globals: map[string]any{},
		cache:   map[string]map[string]any{},
		logger:  logger,
	}
}

// SetGlobal stores one key in the process-wide data store.
func (m *Merger) SetGlobal(key string, value any) {
	m.mu.Lock()
	m.globals[key] = value
	m.mu.Unlock()
}

// SetGlobals stores every key of data in the process-wide data store.
func (m *Merger) SetGlobals(data map[string]any) {
	m.mu.Lock()
	for k, v := range data {
		m.globals[k] = v
	}
	m.mu.Unlock()
}

// Global reads one key from the process-wide data store.
func (m *Merger) Global(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.globals[key]
	return v, ok
}

// BuildContext computes the merged rendering context for doc. The sources
// are copied; the document's own Data and Locals maps are never mutated.
func (m *Merger) BuildContext(doc *document.Document, callLocals map[string]any) map[string]any {
	return m.build(doc, callLocals, true)
}

func (m *Merger) build(doc *document.Document, callLocals map[string]any, withPartials bool) map[string]any {
	out := map[string]any{}

	m.mu.Lock()
	copyInto(out, m.globals)
	m.mu.Unlock()

	if doc.Collection != "" {
		if coll, ok := m.reg.Collection(doc.Collection); ok {
			copyInto(out, coll.Options)
		}
	}
	copyInto(out, doc.Options.Extra)

	if m.PreferLocals {
		copyInto(out, doc.Locals)
		copyInto(out, doc.Data)
	} else {
		copyInto(out, doc.Data)
		copyInto(out, doc.Locals)
	}

	if withPartials {
		m.mergePartials(out)
	}

	copyInto(out, callLocals)
	return out
}

// MergedPartials computes just the partial-content namespaces, keyed the
// same way they appear inside a full context.
func (m *Merger) MergedPartials() map[string]any {
	out := map[string]any{}
	m.mergePartials(out)
	return out
}

// mergePartials visits every partial-role document: dispatches the onMerge
// middleware, computes the partial's own context (without partial merging),
// caches it, applies the partial's layout, and exposes the resulting
// content as a plain string. Documents flagged nomerge by the middleware
// are visited but excluded from the output.
func (m *Merger) mergePartials(out map[string]any) {
	for _, coll := range m.reg.ByRole(collection.Partial) {
		for _, key := range coll.Keys() {
			doc, ok := coll.Get(key)
			if !ok {
				continue
			}

			m.disp.Dispatch(middleware.OnMerge, doc, func(_ *document.Document, err error) {
				if err != nil {
					m.logger.Warn("onMerge middleware failed",
						logfields.Key(key),
						logfields.Collection(coll.Name),
						logfields.Error(err))
				}
			})

			pctx := m.build(doc, nil, false)
			m.mu.Lock()
			m.cache[key] = pctx
			m.mu.Unlock()

			content, err := m.res.Apply(doc, pctx)
			if err != nil {
				m.logger.Warn("partial layout failed",
					logfields.Key(key),
					logfields.Error(err))
				content = doc.Content
			}

			if doc.Options.NoMerge {
				continue
			}

			namespace := coll.Name
			if m.MergePartials {
				namespace = FlattenedNamespace
			}
			ns, ok := out[namespace].(map[string]any)
			if !ok {
				ns = map[string]any{}
				out[namespace] = ns
			}
			ns[key] = content
		}
	}
}

// CachedContext returns the last context computed for a partial key during
// partial merging.
func (m *Merger) CachedContext(key string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ctx, ok := m.cache[key]
	return ctx, ok
}

func copyInto(dst map[string]any, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}
