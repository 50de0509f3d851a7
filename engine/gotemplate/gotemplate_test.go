package gotemplate

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/require"
)

func TestRender_RawString(t *testing.T) {
	e := New()
	out, err := e.Render("Hello {{.name}}", map[string]any{"name": "world"})
	require.NoError(t, err)
	require.Equal(t, "Hello world", out)
}

func TestCompileOnce_RenderTwiceWithDifferentContexts(t *testing.T) {
	e := New()
	handle, err := e.Compile("Hi {{.name}}", nil)
	require.NoError(t, err)

	out, err := e.Render(handle, map[string]any{"name": "A"})
	require.NoError(t, err)
	require.Equal(t, "Hi A", out)

	out, err = e.Render(handle, map[string]any{"name": "B"})
	require.NoError(t, err)
	require.Equal(t, "Hi B", out)
}

func TestPartial_FlattenedNamespace(t *testing.T) {
	e := New()
	ctx := map[string]any{
		"partials": map[string]any{"link": `<a href="https://x"> </a>`},
	}
	out, err := e.Render(`Home.{{partial "link"}}`, ctx)
	require.NoError(t, err)
	require.Equal(t, `Home.<a href="https://x"> </a>`, out)
}

func TestPartial_PerCollectionNamespace(t *testing.T) {
	e := New()
	ctx := map[string]any{
		"snippets": map[string]any{"link": "S"},
	}
	out, err := e.Render(`{{partial "link"}}`, ctx)
	require.NoError(t, err)
	require.Equal(t, "S", out)
}

func TestPartial_Unknown_ReturnsError(t *testing.T) {
	e := New()
	_, err := e.Render(`{{partial "nope"}}`, map[string]any{})
	require.Error(t, err)
}

func TestRender_ParseError(t *testing.T) {
	e := New()
	_, err := e.Render("{{.unclosed", nil)
	require.Error(t, err)
}

func TestRender_CustomFuncs(t *testing.T) {
	e := New()
	e.Funcs = template.FuncMap{"shout": func(s string) string { return s + "!" }}

	out, err := e.Render(`{{shout "hi"}}`, nil)
	require.NoError(t, err)
	require.Equal(t, "hi!", out)
}

func TestRender_UnsupportedSource(t *testing.T) {
	e := New()
	_, err := e.Render(42, nil)
	require.Error(t, err)
}
