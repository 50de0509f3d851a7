package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/viewcraft/document"
)

func TestFunc_ResolvesSynchronously(t *testing.T) {
	task := Func(func() (Result, error) {
		return Result{"a": document.New("a", "A")}, nil
	})

	res, err := task.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "A", res["a"].Content)
}

func TestAwait_MemoizesOutcome(t *testing.T) {
	runs := 0
	task := Func(func() (Result, error) {
		runs++
		return Result{}, nil
	})

	_, err := task.Await(context.Background())
	require.NoError(t, err)
	_, err = task.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, runs)
}

func TestNewTask_AsynchronousResolve(t *testing.T) {
	task := NewTask(func(resolve func(Result, error)) {
		go func() {
			time.Sleep(5 * time.Millisecond)
			resolve(Result{"x": document.New("x", "late")}, nil)
		}()
	})

	res, err := task.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, "late", res["x"].Content)
}

func TestAwait_ContextCancellation(t *testing.T) {
	task := NewTask(func(resolve func(Result, error)) {
		// Never resolves.
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Await(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCollect_DrainsChannelKeyedByPath(t *testing.T) {
	ch := make(chan *document.Document, 2)
	ch <- document.New("a.md", "A")
	ch <- document.New("b.md", "B")
	close(ch)

	res, err := Collect(ch).Await(context.Background())
	require.NoError(t, err)
	require.Len(t, res, 2)
	require.Equal(t, "B", res["b.md"].Content)
}

func TestFiles_ParsesFrontMatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	require.NoError(t, os.WriteFile(path, []byte("---\nname: A\n---\nBody"), 0o644))

	res, err := Files(path).Await(context.Background())
	require.NoError(t, err)

	doc := res[path]
	require.NotNil(t, doc)
	require.Equal(t, "Body", doc.Content)
	require.Equal(t, map[string]any{"name": "A"}, doc.Data)
}

func TestFiles_MissingFile_ReturnsError(t *testing.T) {
	res, err := Files(filepath.Join(t.TempDir(), "nope.md")).Await(context.Background())
	require.Error(t, err)
	require.Nil(t, res)
}

func TestNewTask_ErrorPropagates(t *testing.T) {
	task := Func(func() (Result, error) {
		return nil, fmt.Errorf("load failed")
	})
	_, err := task.Await(context.Background())
	require.EqualError(t, err, "load failed")
}
