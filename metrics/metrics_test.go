package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.RenderCompleted("md", time.Millisecond, true)
		r.CompileCompleted("md", false)
		r.MiddlewareDispatched("preRender")
		r.LayoutApplied(2)
	})
}

func TestPrometheusRecorder_CountsRenders(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.RenderCompleted("md", 5*time.Millisecond, true)
	r.RenderCompleted("md", 5*time.Millisecond, true)
	r.RenderCompleted("tmpl", 5*time.Millisecond, false)

	require.Equal(t, 2.0, testutil.ToFloat64(r.renders.WithLabelValues("md", "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.renders.WithLabelValues("tmpl", "false")))
}

func TestPrometheusRecorder_CountsDispatchesByHook(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.MiddlewareDispatched("preRender")
	r.MiddlewareDispatched("preRender")
	r.MiddlewareDispatched("onMerge")

	require.Equal(t, 2.0, testutil.ToFloat64(r.dispatches.WithLabelValues("preRender")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.dispatches.WithLabelValues("onMerge")))
}
