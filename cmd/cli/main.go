package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/gridclosure/internal/app"
	"github.com/specialistvlad/gridclosure/internal/cli"
	"github.com/specialistvlad/gridclosure/internal/hcl_adapter"
)

// main is the entrypoint for the closure application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	loader := hcl_adapter.NewLoader(hcl_adapter.Defaults{
		Project: appConfig.Project,
		Domain:  appConfig.Domain,
		Version: appConfig.Version,
	})
	closureApp := app.NewApp(outW, appConfig, loader)

	if _, err := closureApp.Run(context.Background()); err != nil {
		return &cli.ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
