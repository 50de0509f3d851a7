// Package document defines the in-memory record for one template-like unit
// of content and its lifecycle state.
package document

import "fmt"

// LayoutEntry records one applied layout wrapper.
type LayoutEntry struct {
	Name    string
	Content string
}

// Options holds per-document configuration and lifecycle flags.
type Options struct {
	// Layout names the layout wrapper for this document. Empty means
	// unset; NoLayout disables wrapping even when a default is configured.
	Layout   string
	NoLayout bool

	// Engine overrides the extension-derived engine for this document.
	Engine string

	// LayoutApplied is set after the layout stack has wrapped the
	// content. Wrapping is applied at most once.
	LayoutApplied bool

	// NoMerge excludes the document from partial-merge output. Merge
	// middleware may set it; the document is still visited.
	NoMerge bool

	// Method is the name of the last hook dispatched for this document.
	Method string

	// Extra carries arbitrary per-document configuration merged into the
	// rendering context between collection options and document data.
	Extra map[string]any
}

// Document is one loaded template: path, current content, and the metadata
// sources the context merger combines at render time.
//
// Data (front matter) and Locals (caller-supplied) are kept separate for
// the whole lifetime of the record; only the merger combines them, and only
// transiently for a single render call.
type Document struct {
	// Path identifies the document within its collection and is the
	// subject of middleware pattern matching.
	Path string

	// Content is overwritten at each lifecycle stage: front matter
	// stripped, layout wrapped, rendered.
	Content string

	// Layout set directly on the record wins over every other layout
	// source.
	Layout string

	Data   map[string]any
	Locals map[string]any

	Options Options

	// Fn holds the compiled-template handle once an engine has compiled
	// the content. Non-nil means "already compiled".
	Fn any

	// Collection is the canonical name of the collection the document was
	// registered into, set by the registry.
	Collection string

	// Params holds named parameters extracted by the last matching
	// middleware pattern. Pass-through only.
	Params map[string]string

	// LayoutStack traces the layout wrappers applied to the content, in
	// application order.
	LayoutStack []LayoutEntry

	handled map[string]bool
	running map[string]bool
}

// New creates a document with the given path and raw content.
func New(path, content string) *Document {
	return &Document{
		Path:    path,
		Content: content,
		Data:    map[string]any{},
		Locals:  map[string]any{},
	}
}

// BeginHook marks a hook as in flight. It fails if the same hook is already
// running for this document, which guards against recursive middleware
// re-triggering the phase it runs in.
func (d *Document) BeginHook(hook string) error {
	if d.running[hook] {
		return fmt.Errorf("hook %q already running for %q", hook, d.Path)
	}
	if d.running == nil {
		d.running = map[string]bool{}
	}
	d.running[hook] = true
	d.Options.Method = hook
	return nil
}

// EndHook clears the in-flight marker for a hook.
func (d *Document) EndHook(hook string) {
	delete(d.running, hook)
}

// MarkHandled permanently records that a hook's handler stack completed for
// this document. Cleared only by ResetHandled.
func (d *Document) MarkHandled(hook string) {
	if d.handled == nil {
		d.handled = map[string]bool{}
	}
	d.handled[hook] = true
}

// HandledFor reports whether a hook has already been handled.
func (d *Document) HandledFor(hook string) bool {
	return d.handled[hook]
}

// ResetHandled clears handled state for the given hooks, or for all hooks
// when none are named.
func (d *Document) ResetHandled(hooks ...string) {
	if len(hooks) == 0 {
		d.handled = nil
		return
	}
	for _, h := range hooks {
		delete(d.handled, h)
	}
}
