package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/viewcraft/loader"
)

func runRender(logger *slog.Logger) error {
	locals, err := parseData(CLI.Render.Data)
	if err != nil {
		return err
	}

	app := newApp(logger)

	if CLI.Render.Layout != "" {
		raw, err := os.ReadFile(CLI.Render.Layout)
		if err != nil {
			return fmt.Errorf("read layout: %w", err)
		}
		name := strippedName(CLI.Render.Layout)
		if err := app.Layout(name, string(raw), nil); err != nil {
			return err
		}
		locals["layout"] = name
	}

	file := CLI.Render.File
	if err := app.Load(context.Background(), "pages", loader.Files(file)); err != nil {
		return err
	}

	out, err := app.Render(file, locals)
	if err != nil {
		return err
	}

	if CLI.Render.Output != "" {
		return os.WriteFile(CLI.Render.Output, []byte(out), 0o644)
	}
	_, err = fmt.Print(out)
	return err
}

// strippedName is the file name without directory or extension, used as a
// document key.
func strippedName(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
