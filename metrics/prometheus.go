package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	renders     *prom.CounterVec
	renderSecs  *prom.HistogramVec
	compiles    *prom.CounterVec
	dispatches  *prom.CounterVec
	layoutDepth prom.Histogram
}

// NewPrometheusRecorder creates a recorder and registers its collectors.
// A nil registerer uses the default registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	r := &PrometheusRecorder{
		renders: prom.NewCounterVec(prom.CounterOpts{
			Name: "viewcraft_renders_total",
			Help: "Completed renders by engine and outcome.",
		}, []string{"engine", "success"}),
		renderSecs: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "viewcraft_render_duration_seconds",
			Help:    "Render duration by engine.",
			Buckets: prom.DefBuckets,
		}, []string{"engine"}),
		compiles: prom.NewCounterVec(prom.CounterOpts{
			Name: "viewcraft_compiles_total",
			Help: "Completed compiles by engine and outcome.",
		}, []string{"engine", "success"}),
		dispatches: prom.NewCounterVec(prom.CounterOpts{
			Name: "viewcraft_middleware_dispatches_total",
			Help: "Middleware dispatches by hook.",
		}, []string{"hook"}),
		layoutDepth: prom.NewHistogram(prom.HistogramOpts{
			Name:    "viewcraft_layout_chain_depth",
			Help:    "Depth of applied layout chains.",
			Buckets: []float64{0, 1, 2, 3, 5, 8},
		}),
	}

	reg.MustRegister(r.renders, r.renderSecs, r.compiles, r.dispatches, r.layoutDepth)
	return r
}

func (r *PrometheusRecorder) RenderCompleted(engine string, d time.Duration, success bool) {
	r.renders.WithLabelValues(engine, strconv.FormatBool(success)).Inc()
	r.renderSecs.WithLabelValues(engine).Observe(d.Seconds())
}

func (r *PrometheusRecorder) CompileCompleted(engine string, success bool) {
	r.compiles.WithLabelValues(engine, strconv.FormatBool(success)).Inc()
}

func (r *PrometheusRecorder) MiddlewareDispatched(hook string) {
	r.dispatches.WithLabelValues(hook).Inc()
}

func (r *PrometheusRecorder) LayoutApplied(depth int) {
	r.layoutDepth.Observe(float64(depth))
}
