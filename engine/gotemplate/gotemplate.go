// Package gotemplate adapts text/template as a viewcraft engine. It adds a
// `partial` template function that resolves merged partial content from the
// rendering context.
package gotemplate

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
)

// Engine compiles and renders text/template content.
type Engine struct {
	// Funcs are extra template functions merged into every compile.
	Funcs template.FuncMap
}

// New creates a gotemplate engine.
func New() *Engine {
	return &Engine{}
}

// compiled pairs a parsed template with the mutable render state its
// `partial` function reads from. Renders are cooperative, never parallel
// against the same document, so a plain field is sufficient.
type compiled struct {
	tpl   *template.Template
	state *renderState
}

type renderState struct {
	opts map[string]any
}

// Compile parses content into a reusable handle.
func (e *Engine) Compile(content string, _ map[string]any) (any, error) {
	state := &renderState{}
	funcs := template.FuncMap{"partial": state.partial}
	for k, v := range e.Funcs {
		funcs[k] = v
	}

	tpl, err := template.New("view").Funcs(funcs).Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}
	return &compiled{tpl: tpl, state: state}, nil
}

// Render executes a compiled handle, or compiles raw string content first.
func (e *Engine) Render(src any, opts map[string]any) (string, error) {
	var c *compiled
	switch v := src.(type) {
	case *compiled:
		c = v
	case string:
		handle, err := e.Compile(v, opts)
		if err != nil {
			return "", err
		}
		c = handle.(*compiled)
	default:
		return "", fmt.Errorf("unsupported source type %T", src)
	}

	c.state.opts = opts
	var buf bytes.Buffer
	if err := c.tpl.Execute(&buf, opts); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// partial resolves a merged partial by key: first from the flattened
// `partials` namespace, then from per-collection namespaces in sorted
// order.
func (s *renderState) partial(name string) (string, error) {
	if ps, ok := s.opts["partials"].(map[string]any); ok {
		if v, ok := ps[name]; ok {
			return fmt.Sprint(v), nil
		}
	}

	keys := make([]string, 0, len(s.opts))
	for k := range s.opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ns, ok := s.opts[k].(map[string]any)
		if !ok {
			continue
		}
		if v, ok := ns[name]; ok {
			return fmt.Sprint(v), nil
		}
	}
	return "", fmt.Errorf("partial %q not found", name)
}
