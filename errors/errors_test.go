package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_WithCause_FormatsCategoryAndCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Engine(cause, "render failed")

	require.Equal(t, "engine: render failed: boom", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestError_WithoutCause_FormatsCategoryOnly(t *testing.T) {
	err := Config("name must be a non-empty string")
	require.Equal(t, "config: name must be a non-empty string", err.Error())
}

func TestIsCategory_MatchesWrappedErrors(t *testing.T) {
	inner := NotFound("collection %q not registered", "pages")
	outer := fmt.Errorf("loading: %w", inner)

	require.True(t, IsNotFound(outer))
	require.False(t, IsConfig(outer))
	require.False(t, IsNotFound(fmt.Errorf("plain")))
}

func TestMiddleware_CarriesPathContext(t *testing.T) {
	err := Middleware(fmt.Errorf("denied"), "preRender", "posts/a.md")

	require.True(t, IsMiddleware(err))
	require.Equal(t, "posts/a.md", err.Context["path"])
}
