package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/viewcraft"
	"git.home.luguber.info/inful/viewcraft/loader"
)

var previewExtensions = map[string]bool{
	".md":   true,
	".tmpl": true,
	".html": true,
}

func runPreview(logger *slog.Logger) error {
	if err := os.MkdirAll(CLI.Preview.Output, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if err := renderDir(logger); err != nil {
		return err
	}
	if !CLI.Preview.Watch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(CLI.Preview.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", CLI.Preview.Dir, err)
	}
	logger.Info("watching for changes", "dir", CLI.Preview.Dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !previewExtensions[filepath.Ext(event.Name)] {
				continue
			}
			logger.Info("change detected", "file", event.Name)
			// Rebuild from scratch so layout and partial edits propagate.
			if err := renderDir(logger); err != nil {
				logger.Error("re-render failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}

// renderDir loads every template in the preview directory and writes the
// rendered pages to the output directory. Files under layouts/ and
// partials/ subdirectories take those roles; everything else is a page.
func renderDir(logger *slog.Logger) error {
	app := newApp(logger)

	if err := loadRole(app, filepath.Join(CLI.Preview.Dir, "layouts"), "layouts"); err != nil {
		return err
	}
	if err := loadRole(app, filepath.Join(CLI.Preview.Dir, "partials"), "partials"); err != nil {
		return err
	}

	pages, err := listTemplates(CLI.Preview.Dir)
	if err != nil {
		return err
	}
	if len(pages) > 0 {
		if err := app.Load(context.Background(), "pages", loader.Files(pages...)); err != nil {
			return err
		}
	}

	for _, page := range pages {
		out, err := app.Render(page, nil)
		if err != nil {
			return fmt.Errorf("render %s: %w", page, err)
		}
		target := filepath.Join(CLI.Preview.Output, strippedName(page)+".html")
		if err := os.WriteFile(target, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		logger.Debug("wrote page", "source", page, "target", target)
	}
	return nil
}

// loadRole loads a role subdirectory if it exists, keyed by stripped file
// name so documents can reference layouts and partials by bare name.
func loadRole(app *viewcraft.Templates, dir, collectionName string) error {
	files, err := listTemplates(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	res, err := loader.Files(files...).Await(context.Background())
	if err != nil {
		return err
	}
	for _, doc := range res {
		if err := app.AddDocument(collectionName, strippedName(doc.Path), doc); err != nil {
			return err
		}
	}
	return nil
}

// listTemplates returns the template files directly inside dir.
func listTemplates(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if previewExtensions[filepath.Ext(entry.Name())] {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	return out, nil
}
