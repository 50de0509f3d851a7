// Package middleware routes documents through path-pattern-matched handler
// chains at named lifecycle hooks.
package middleware

import (
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/viewcraft/document"
	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
	"git.home.luguber.info/inful/viewcraft/internal/logfields"
)

// Hook is a named lifecycle point.
type Hook string

const (
	OnLoad      Hook = "onLoad"
	PreCompile  Hook = "preCompile"
	PostCompile Hook = "postCompile"
	PreRender   Hook = "preRender"
	PostRender  Hook = "postRender"
	PreLayout   Hook = "preLayout"
	PostLayout  Hook = "postLayout"
	OnMerge     Hook = "onMerge"

	// All matches regardless of the dispatched hook.
	All Hook = "all"
)

// Handler inspects or mutates a document, then calls next. Passing a
// non-nil error to next aborts the remaining chain.
type Handler func(doc *document.Document, next func(error))

// Callback receives the outcome of a dispatch.
type Callback func(doc *document.Document, err error)

type registration struct {
	hook     Hook
	pattern  Pattern
	handlers []Handler
}

// Dispatcher holds middleware registrations and runs matching chains
// against documents. Handlers for a (pattern, hook) pair run in
// registration order.
type Dispatcher struct {
	mu            sync.RWMutex
	registrations []registration
	logger        *slog.Logger
}

// NewDispatcher creates an empty dispatcher. A nil logger falls back to
// slog.Default.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// Use registers handlers against every hook for the given pattern. An
// empty pattern matches every path.
func (d *Dispatcher) Use(pattern string, handlers ...Handler) error {
	return d.On(All, pattern, handlers...)
}

// On registers handlers for a specific hook and pattern.
func (d *Dispatcher) On(hook Hook, pattern string, handlers ...Handler) error {
	if len(handlers) == 0 {
		return vcerrors.Config("at least one handler is required")
	}

	var p Pattern
	if pattern == "" {
		p = matchAll{}
	} else {
		parsed, err := Parse(pattern)
		if err != nil {
			return err
		}
		p = parsed
	}

	d.mu.Lock()
	d.registrations = append(d.registrations, registration{hook: hook, pattern: p, handlers: handlers})
	d.mu.Unlock()
	return nil
}

// matchAll matches every path.
type matchAll struct{}

func (matchAll) Match(string) (bool, map[string]string) { return true, nil }
func (matchAll) String() string                         { return "*" }

func (d *Dispatcher) matching(hook Hook, doc *document.Document) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []Handler
	for _, reg := range d.registrations {
		if reg.hook != hook && reg.hook != All {
			continue
		}
		ok, params := reg.pattern.Match(doc.Path)
		if !ok {
			continue
		}
		if params != nil {
			doc.Params = params
		}
		out = append(out, reg.handlers...)
	}
	return out
}

// Dispatch runs the matching handler chain for hook against doc.
func (d *Dispatcher) Dispatch(hook Hook, doc *document.Document, cb Callback) {
	d.dispatch(hook, doc, cb, false)
}

// DispatchOnce is Dispatch with an idempotence guard: a document already
// handled for hook is a no-op, and a successful run marks it handled.
func (d *Dispatcher) DispatchOnce(hook Hook, doc *document.Document, cb Callback) {
	if doc.HandledFor(string(hook)) {
		d.finish(doc, nil, cb, hook)
		return
	}
	d.dispatch(hook, doc, cb, true)
}

func (d *Dispatcher) dispatch(hook Hook, doc *document.Document, cb Callback, markHandled bool) {
	if err := doc.BeginHook(string(hook)); err != nil {
		d.finish(doc, vcerrors.Wrap(err, vcerrors.CategoryMiddleware, "re-entrant dispatch"), cb, hook)
		return
	}

	handlers := d.matching(hook, doc)

	var next func(i int)
	next = func(i int) {
		if i >= len(handlers) {
			doc.EndHook(string(hook))
			if markHandled {
				doc.MarkHandled(string(hook))
			}
			d.finish(doc, nil, cb, hook)
			return
		}
		handlers[i](doc, func(err error) {
			if err != nil {
				doc.EndHook(string(hook))
				d.finish(doc, vcerrors.Middleware(err, string(hook), doc.Path), cb, hook)
				return
			}
			next(i + 1)
		})
	}
	next(0)
}

func (d *Dispatcher) finish(doc *document.Document, err error, cb Callback, hook Hook) {
	if cb == nil {
		if err != nil {
			d.logger.Error("middleware chain aborted",
				logfields.Hook(string(hook)),
				logfields.Path(doc.Path),
				logfields.Error(err))
		}
		return
	}
	cb(doc, err)
}
