// Package viewcraft orchestrates template rendering: it owns named
// collections of documents, merges rendering contexts from
// precedence-ordered sources, routes documents through pattern-matched
// middleware at lifecycle hooks, and applies stack-based layout wrapping
// before dispatching to an extension-matched engine.
//
// All state lives on one Templates instance constructed per application
// context; there is no package-level registry.
package viewcraft

import (
	"context"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/viewcraft/collection"
	"git.home.luguber.info/inful/viewcraft/document"
	"git.home.luguber.info/inful/viewcraft/engine"
	"git.home.luguber.info/inful/viewcraft/engine/gotemplate"
	"git.home.luguber.info/inful/viewcraft/engine/markdown"
	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
	"git.home.luguber.info/inful/viewcraft/frontmatter"
	"git.home.luguber.info/inful/viewcraft/internal/logfields"
	"git.home.luguber.info/inful/viewcraft/layout"
	"git.home.luguber.info/inful/viewcraft/loader"
	"git.home.luguber.info/inful/viewcraft/merge"
	"git.home.luguber.info/inful/viewcraft/metrics"
	"git.home.luguber.info/inful/viewcraft/middleware"
)

// Default collection names registered by New.
const (
	PagesCollection    = "pages"
	LayoutsCollection  = "layouts"
	PartialsCollection = "partials"
)

// Templates is the rendering orchestrator. Construct one per application
// context with New.
type Templates struct {
	registry   *collection.Registry
	dispatcher *middleware.Dispatcher
	engines    *engine.Registry
	resolver   *layout.Resolver
	merger     *merge.Merger

	recorder   metrics.Recorder
	logger     *slog.Logger
	silent     bool
	defaultExt string

	mu   sync.Mutex
	errs []error
}

// New creates a Templates instance with the default collections (pages,
// layouts, partials) and default engines (text/template under tmpl, html
// and the wildcard; goldmark under md).
func New(opts ...Option) *Templates {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	reg := collection.NewRegistry(cfg.renameKey)
	mustRegister(reg, PagesCollection, collection.WithRoles(collection.Renderable))
	mustRegister(reg, LayoutsCollection, collection.WithRoles(collection.Layout))
	mustRegister(reg, PartialsCollection, collection.WithRoles(collection.Partial))

	disp := middleware.NewDispatcher(cfg.logger)
	res := layout.NewResolver(reg,
		layout.WithDelims(cfg.layoutOpen, cfg.layoutClose),
		layout.WithTag(cfg.layoutTag),
		layout.WithDefault(cfg.defaultLayout),
		layout.WithLogger(cfg.logger),
	)
	merger := merge.New(reg, disp, res, cfg.logger)
	merger.PreferLocals = cfg.preferLocals
	merger.MergePartials = cfg.mergePartials

	engines := engine.NewRegistry()
	tpl := gotemplate.New()
	for _, ext := range []string{"tmpl", "html", engine.Wildcard} {
		_ = engines.Register(ext, tpl)
	}
	_ = engines.Register("md", markdown.New())

	return &Templates{
		registry:   reg,
		dispatcher: disp,
		engines:    engines,
		resolver:   res,
		merger:     merger,
		recorder:   cfg.recorder,
		logger:     cfg.logger,
		silent:     cfg.silent,
		defaultExt: cfg.defaultExt,
	}
}

func mustRegister(reg *collection.Registry, name string, opts ...collection.RegisterOption) {
	if _, err := reg.Register(name, opts...); err != nil {
		panic(err)
	}
}

// Create registers an additional named collection.
func (t *Templates) Create(name string, opts ...collection.RegisterOption) (*collection.Collection, error) {
	return t.registry.Register(name, opts...)
}

// Collection returns a registered collection by name or singular alias.
func (t *Templates) Collection(name string) (*collection.Collection, bool) {
	return t.registry.Collection(name)
}

// Add parses content's front matter and stores the document under key in
// the named collection. The onLoad middleware runs once per document.
// locals are kept separate from front matter data for the document's whole
// lifetime.
func (t *Templates) Add(collectionName, key, content string, locals map[string]any) error {
	data, body, err := frontmatter.Parse(content)
	if err != nil {
		return t.fail(vcerrors.Wrap(err, vcerrors.CategoryConfig, "invalid front matter"))
	}

	doc := document.New(key, body)
	doc.Data = data
	for k, v := range locals {
		doc.Locals[k] = v
	}
	return t.AddDocument(collectionName, key, doc)
}

// AddDocument stores an already-built document record. The onLoad
// middleware runs once per document.
func (t *Templates) AddDocument(collectionName, key string, doc *document.Document) error {
	if err := t.dispatchOnce(middleware.OnLoad, doc); err != nil {
		return t.fail(err)
	}
	if err := t.registry.Put(collectionName, key, doc); err != nil {
		return t.fail(err)
	}
	t.logger.Debug("document added",
		logfields.Collection(collectionName),
		logfields.Key(key))
	return nil
}

// Page stores a renderable document.
func (t *Templates) Page(key, content string, locals map[string]any) error {
	return t.Add(PagesCollection, key, content, locals)
}

// Layout stores a layout document.
func (t *Templates) Layout(key, content string, locals map[string]any) error {
	return t.Add(LayoutsCollection, key, content, locals)
}

// Partial stores a partial document.
func (t *Templates) Partial(key, content string, locals map[string]any) error {
	return t.Add(PartialsCollection, key, content, locals)
}

// Load awaits a loader task and stores every resulting document in the
// named collection.
func (t *Templates) Load(ctx context.Context, collectionName string, task *loader.Task) error {
	res, err := task.Await(ctx)
	if err != nil {
		return t.fail(err)
	}
	for key, doc := range res {
		if err := t.AddDocument(collectionName, key, doc); err != nil {
			return err
		}
	}
	return nil
}

// Data merges key-value pairs into the process-wide global data store, the
// lowest-precedence context source.
func (t *Templates) Data(data map[string]any) {
	t.merger.SetGlobals(data)
}

// DataYAML parses a YAML manifest into the global data store.
func (t *Templates) DataYAML(raw []byte) error {
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return t.fail(vcerrors.Wrap(err, vcerrors.CategoryConfig, "invalid data manifest"))
	}
	t.merger.SetGlobals(data)
	return nil
}

// Engine registers an engine for a file extension or the `*` wildcard.
func (t *Templates) Engine(ext string, e engine.Engine) error {
	return t.engines.Register(ext, e)
}

// Use registers middleware handlers for every hook.
func (t *Templates) Use(pattern string, handlers ...middleware.Handler) error {
	return t.dispatcher.Use(pattern, handlers...)
}

// On registers middleware handlers for one hook.
func (t *Templates) On(hook middleware.Hook, pattern string, handlers ...middleware.Handler) error {
	return t.dispatcher.On(hook, pattern, handlers...)
}

// Context computes the merged rendering context for a document without
// rendering it.
func (t *Templates) Context(doc *document.Document, locals map[string]any) map[string]any {
	return t.merger.BuildContext(doc, locals)
}

// Errors returns the errors accumulated in silent mode.
func (t *Templates) Errors() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]error, len(t.errs))
	copy(out, t.errs)
	return out
}

// fail applies the silent-mode policy: the error is always returned to the
// caller, and in silent mode it is also logged and accumulated.
func (t *Templates) fail(err error) error {
	if err == nil {
		return nil
	}
	if t.silent {
		t.mu.Lock()
		t.errs = append(t.errs, err)
		t.mu.Unlock()
		t.logger.Error("viewcraft error", logfields.Error(err))
	}
	return err
}

func (t *Templates) dispatchOnce(hook middleware.Hook, doc *document.Document) error {
	t.recorder.MiddlewareDispatched(string(hook))
	ch := make(chan error, 1)
	t.dispatcher.DispatchOnce(hook, doc, func(_ *document.Document, err error) {
		ch <- err
	})
	return <-ch
}
