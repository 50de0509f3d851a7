// Package loader provides the asynchronous-task abstraction every loader
// adapter produces, isolating the orchestrator from calling-convention
// differences (plain functions, callbacks, channels).
package loader

import (
	"context"
	"fmt"
	"os"
	"sync"

	"git.home.luguber.info/inful/viewcraft/document"
	"git.home.luguber.info/inful/viewcraft/frontmatter"
)

// Result maps document keys to loaded records.
type Result map[string]*document.Document

// Task is a single-use future for a load operation. Await starts the
// underlying work on first call and memoizes the outcome.
type Task struct {
	start func(resolve func(Result, error))

	once sync.Once
	done chan struct{}
	res  Result
	err  error
}

// NewTask wraps a start function. The function receives a resolve callback
// that may be invoked from any goroutine; only the first invocation counts.
func NewTask(start func(resolve func(Result, error))) *Task {
	return &Task{start: start, done: make(chan struct{})}
}

// Await runs the task if it has not run yet and blocks until it resolves
// or the context is cancelled. The resolved outcome is memoized; repeated
// calls return the same result.
func (t *Task) Await(ctx context.Context) (Result, error) {
	t.once.Do(func() {
		var resolveOnce sync.Once
		t.start(func(res Result, err error) {
			resolveOnce.Do(func() {
				t.res, t.err = res, err
				close(t.done)
			})
		})
	})

	select {
	case <-t.done:
		return t.res, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Func adapts a synchronous loader function.
func Func(fn func() (Result, error)) *Task {
	return NewTask(func(resolve func(Result, error)) {
		resolve(fn())
	})
}

// Collect adapts a stream-style loader: it drains the channel into a
// Result keyed by document path. The channel must be closed by the
// producer.
func Collect(ch <-chan *document.Document) *Task {
	return NewTask(func(resolve func(Result, error)) {
		go func() {
			res := Result{}
			for doc := range ch {
				res[doc.Path] = doc
			}
			resolve(res, nil)
		}()
	})
}

// Files adapts named files into a load task: each file is read, front
// matter is parsed into Data, and the stripped body becomes Content. Keys
// are the given paths.
func Files(paths ...string) *Task {
	return Func(func() (Result, error) {
		res := Result{}
		for _, path := range paths {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", path, err)
			}
			data, body, err := frontmatter.Parse(string(raw))
			if err != nil {
				return nil, fmt.Errorf("parse front matter of %s: %w", path, err)
			}
			doc := document.New(path, body)
			doc.Data = data
			res[path] = doc
		}
		return res, nil
	})
}
