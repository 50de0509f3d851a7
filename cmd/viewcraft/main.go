package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"git.home.luguber.info/inful/viewcraft"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Render struct {
		File   string   `arg:"" help:"Template file to render"`
		Data   []string `short:"d" help:"Context values as key=value pairs"`
		Layout string   `short:"l" help:"Layout file applied around the output"`
		Output string   `short:"o" help:"Write output to file instead of stdout"`
	} `cmd:"" help:"Render a single template file"`

	Preview struct {
		Dir    string `arg:"" help:"Directory of template files"`
		Output string `short:"o" help:"Output directory" default:"./out"`
		Watch  bool   `short:"w" help:"Re-render on file changes"`
	} `cmd:"" help:"Render a directory of templates, optionally watching for changes"`
}

func main() {
	// Env overrides are optional; a missing .env file is not an error.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "render <file>":
		err = runRender(logger)
	case "preview <dir>":
		err = runPreview(logger)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// parseData turns key=value pairs into call-site locals.
func parseData(pairs []string) (map[string]any, error) {
	locals := map[string]any{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid data pair %q, expected key=value", pair)
		}
		locals[key] = value
	}
	return locals, nil
}

func newApp(logger *slog.Logger) *viewcraft.Templates {
	return viewcraft.New(viewcraft.Logger(logger))
}
