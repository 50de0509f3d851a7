package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_ConvertsHeadings(t *testing.T) {
	e := New()
	out, err := e.Render("# Title\n", nil)
	require.NoError(t, err)
	require.Equal(t, "<h1>Title</h1>\n", out)
}

func TestRender_PlainParagraph(t *testing.T) {
	e := New()
	out, err := e.Render("hello *there*", nil)
	require.NoError(t, err)
	require.Equal(t, "<p>hello <em>there</em></p>\n", out)
}

func TestRender_UnsupportedSource(t *testing.T) {
	e := New()
	_, err := e.Render([]byte("raw"), nil)
	require.Error(t, err)
}
