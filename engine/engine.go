// Package engine defines the adapter interface for pluggable template
// compilers/renderers and the registry that maps file extensions to them.
package engine

import (
	"strings"
	"sync"

	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
)

// Wildcard is the catch-all extension.
const Wildcard = "*"

// Engine renders a source: either a raw content string or a compiled
// handle previously produced by the same engine's Compile. Render is the
// required capability.
type Engine interface {
	Render(src any, opts map[string]any) (string, error)
}

// Compiler is the optional compile capability. Engines without it are
// rendered from raw content every time.
type Compiler interface {
	Compile(content string, opts map[string]any) (any, error)
}

// Registry maps file extensions to engines.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
}

// NewRegistry creates an empty engine registry.
func NewRegistry() *Registry {
	return &Registry{engines: map[string]Engine{}}
}

// Register associates an engine with a file extension (with or without the
// leading dot) or the `*` wildcard. The render capability is part of the
// Engine type; a nil engine or empty extension fails with a config error.
func (r *Registry) Register(ext string, e Engine) error {
	if e == nil {
		return vcerrors.Config("engine must not be nil")
	}
	ext = normalizeExt(ext)
	if ext == "" {
		return vcerrors.Config("engine extension must be a non-empty string")
	}

	r.mu.Lock()
	r.engines[ext] = e
	r.mu.Unlock()
	return nil
}

// Lookup returns the engine for an extension, falling back to the
// wildcard registration.
func (r *Registry) Lookup(ext string) (Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.engines[normalizeExt(ext)]; ok {
		return e, true
	}
	e, ok := r.engines[Wildcard]
	return e, ok
}

func normalizeExt(ext string) string {
	if ext == Wildcard {
		return ext
	}
	return strings.TrimPrefix(ext, ".")
}
