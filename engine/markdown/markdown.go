// Package markdown adapts Goldmark as a viewcraft engine for `.md`
// documents. Markdown has no variables, so the engine exposes no compile
// capability; content converts to HTML on every render.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// Engine converts Markdown content to HTML.
type Engine struct {
	md goldmark.Markdown
}

// New creates a markdown engine. Goldmark options (extensions, renderer
// settings) pass through.
func New(opts ...goldmark.Option) *Engine {
	return &Engine{md: goldmark.New(opts...)}
}

// Render converts the source Markdown to HTML.
func (e *Engine) Render(src any, _ map[string]any) (string, error) {
	content, ok := src.(string)
	if !ok {
		return "", fmt.Errorf("unsupported source type %T", src)
	}

	var buf bytes.Buffer
	if err := e.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
