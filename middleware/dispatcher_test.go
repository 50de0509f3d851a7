package middleware

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/viewcraft/document"
	vcerrors "git.home.luguber.info/inful/viewcraft/errors"
)

func dispatchErr(t *testing.T, d *Dispatcher, hook Hook, doc *document.Document) error {
	t.Helper()
	var out error
	called := false
	d.Dispatch(hook, doc, func(_ *document.Document, err error) {
		called = true
		out = err
	})
	require.True(t, called, "callback not invoked")
	return out
}

func TestDispatch_HandlersRunInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(nil)
	var order []string

	tag := func(name string) Handler {
		return func(_ *document.Document, next func(error)) {
			order = append(order, name)
			next(nil)
		}
	}

	require.NoError(t, d.On(PreRender, "home.md", tag("first"), tag("second")))
	require.NoError(t, d.On(PreRender, "*.md", tag("third")))
	require.NoError(t, d.Use("", tag("catchall")))

	doc := document.New("home.md", "")
	require.NoError(t, dispatchErr(t, d, PreRender, doc))
	require.Equal(t, []string{"first", "second", "third", "catchall"}, order)
}

func TestDispatch_NonMatchingPatternIsSkippedSilently(t *testing.T) {
	d := NewDispatcher(nil)
	ran := false
	require.NoError(t, d.On(PreRender, "other.md", func(_ *document.Document, next func(error)) {
		ran = true
		next(nil)
	}))

	doc := document.New("home.md", "")
	require.NoError(t, dispatchErr(t, d, PreRender, doc))
	require.False(t, ran)
}

func TestDispatch_HandlerErrorShortCircuitsChain(t *testing.T) {
	d := NewDispatcher(nil)
	reached := false

	require.NoError(t, d.On(PreRender, "", func(_ *document.Document, next func(error)) {
		next(fmt.Errorf("denied"))
	}))
	require.NoError(t, d.On(PreRender, "", func(_ *document.Document, next func(error)) {
		reached = true
		next(nil)
	}))

	doc := document.New("home.md", "")
	err := dispatchErr(t, d, PreRender, doc)
	require.Error(t, err)
	require.True(t, vcerrors.IsMiddleware(err))
	require.False(t, reached)
}

func TestDispatchOnce_SecondCallIsNoOp(t *testing.T) {
	d := NewDispatcher(nil)
	runs := 0
	require.NoError(t, d.On(Hook("X"), "/./", func(_ *document.Document, next func(error)) {
		runs++
		next(nil)
	}))

	doc := document.New("home.md", "")
	d.DispatchOnce(Hook("X"), doc, nil)
	d.DispatchOnce(Hook("X"), doc, nil)
	require.Equal(t, 1, runs)
	require.True(t, doc.HandledFor("X"))
}

func TestDispatch_BypassesHandledGuard(t *testing.T) {
	d := NewDispatcher(nil)
	runs := 0
	require.NoError(t, d.On(PreRender, "", func(_ *document.Document, next func(error)) {
		runs++
		next(nil)
	}))

	doc := document.New("home.md", "")
	d.DispatchOnce(PreRender, doc, nil)
	require.NoError(t, dispatchErr(t, d, PreRender, doc))
	require.Equal(t, 2, runs)
}

func TestDispatchOnce_FailedChainDoesNotMarkHandled(t *testing.T) {
	d := NewDispatcher(nil)
	require.NoError(t, d.On(PreRender, "", func(_ *document.Document, next func(error)) {
		next(fmt.Errorf("denied"))
	}))

	doc := document.New("home.md", "")
	var got error
	d.DispatchOnce(PreRender, doc, func(_ *document.Document, err error) { got = err })
	require.Error(t, got)
	require.False(t, doc.HandledFor(string(PreRender)))
}

func TestDispatch_ReentrantHookFails(t *testing.T) {
	d := NewDispatcher(nil)
	var inner error
	require.NoError(t, d.On(PreRender, "", func(doc *document.Document, next func(error)) {
		d.Dispatch(PreRender, doc, func(_ *document.Document, err error) { inner = err })
		next(nil)
	}))

	doc := document.New("home.md", "")
	require.NoError(t, dispatchErr(t, d, PreRender, doc))
	require.Error(t, inner)
}

func TestDispatch_NilCallbackSwallowsError(t *testing.T) {
	d := NewDispatcher(nil)
	require.NoError(t, d.On(PreRender, "", func(_ *document.Document, next func(error)) {
		next(fmt.Errorf("denied"))
	}))

	doc := document.New("home.md", "")
	require.NotPanics(t, func() { d.Dispatch(PreRender, doc, nil) })
}

func TestOn_NoHandlers_ReturnsConfigError(t *testing.T) {
	d := NewDispatcher(nil)
	err := d.On(PreRender, "home.md")
	require.True(t, vcerrors.IsConfig(err))
}

func TestDispatch_RegexpParamsPassThrough(t *testing.T) {
	d := NewDispatcher(nil)
	require.NoError(t, d.On(PreRender, `/(?P<name>[a-z]+)\.md/`, func(_ *document.Document, next func(error)) {
		next(nil)
	}))

	doc := document.New("home.md", "")
	require.NoError(t, dispatchErr(t, d, PreRender, doc))
	require.Equal(t, "home", doc.Params["name"])
}
