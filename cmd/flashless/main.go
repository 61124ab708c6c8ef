// Package main is the flashless CLI: a local preview server for
// embedded-firmware web UIs. It serves a frontend's built assets and mocked
// API responses straight from the project tree, so UI work never requires
// flashing firmware to a device.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const usageText = `flashless - local preview utility for firmware web UIs

Usage:
  flashless run --project-dir <dir> [options]   run the preview server
  flashless init-manifest [--output <file>]     write a manifest template
  flashless schema                              print the manifest JSON Schema

Run 'flashless <subcommand> -h' for subcommand options.
`

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "flashless error: %v\n", err)
		os.Exit(2)
	}
}

func mainImpl() error {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		return errors.New("a subcommand is required")
	}
	switch os.Args[1] {
	case "run":
		return cmdRun(os.Args[2:])
	case "init-manifest":
		return cmdInitManifest(os.Args[2:])
	case "schema":
		return cmdSchema(os.Args[2:])
	case "help", "-h", "--help":
		fmt.Print(usageText)
		return nil
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unsupported subcommand: %s", os.Args[1])
	}
}

// setupLogging installs the tint slog handler and returns the level knob.
func setupLogging() *slog.LevelVar {
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop empty attrs to keep request lines short.
			switch t := a.Value.Any().(type) {
			case string:
				if t == "" {
					return slog.Attr{}
				}
			case time.Duration:
				if t == 0 {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)
	return ll
}

func applyLogLevel(ll *slog.LevelVar, level string) error {
	switch level {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", level)
	}
	return nil
}
