// Package metrics provides render-pipeline observability.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks and costs nothing
// when disabled. A Prometheus-backed implementation activates real
// collection by swapping the injected Recorder.
package metrics

import "time"

// Recorder defines the pipeline's metrics operations.
type Recorder interface {
	// RenderCompleted records one finished render for an engine.
	RenderCompleted(engine string, d time.Duration, success bool)
	// CompileCompleted records one finished compile for an engine.
	CompileCompleted(engine string, success bool)
	// MiddlewareDispatched records one hook dispatch.
	MiddlewareDispatched(hook string)
	// LayoutApplied records one layout application with its chain depth.
	LayoutApplied(depth int)
}

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

func (NoopRecorder) RenderCompleted(string, time.Duration, bool) {}
func (NoopRecorder) CompileCompleted(string, bool)               {}
func (NoopRecorder) MiddlewareDispatched(string)                 {}
func (NoopRecorder) LayoutApplied(int)                           {}
