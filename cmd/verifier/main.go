package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"dnclcli/internal/app"
	"dnclcli/internal/config"
	"dnclcli/internal/exporter"
	"dnclcli/internal/infrastructure"
)

func main() {
	var logger *slog.Logger // declared early for use in the panic handler
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("PANIC RECOVERED: %v\n", r)
			fmt.Printf("Stack trace:\n%s\n", debug.Stack())

			if logger != nil {
				logger.Error("Verifier panicked",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())))
			}
			os.Exit(1)
		}
	}()

	input := flag.String("input", "", "path to the input contact file (CSV or Excel)")
	output := flag.String("output", "", "path for the augmented output file (defaults beside the input)")
	format := flag.String("format", "csv", "output format: csv | excel")
	headless := flag.Bool("headless", false, "run the browser headless (CAPTCHAs cannot be solved headless)")
	limit := flag.Int("limit", 0, "verify at most N numbers (0 = all)")
	dryRun := flag.Bool("dry-run", false, "skip the browser; extract numbers and write output with Unknown status")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	outFormat, err := exporter.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	paths, err := config.GetPaths()
	if err != nil {
		fmt.Printf("Error: Failed to initialize paths: %v\n", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		fmt.Printf("Error: Failed to create required directories: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Warning: Failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("verifier.log")
	if *headless {
		cfg.Browser.Headless = true
	}

	logger, err = infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Printf("Warning: Failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("DNCL phone number verifier starting",
		slog.String("input", *input),
		slog.String("output", *output),
		slog.String("format", string(outFormat)),
		slog.Bool("headless", cfg.Browser.Headless),
		slog.Int("limit", *limit),
		slog.Bool("dry_run", *dryRun))

	// Ctrl-C finishes the in-flight number, then writes partial results.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := app.NewRunner(cfg, paths, logger)
	written, err := runner.Run(ctx, app.Options{
		InputPath:  *input,
		OutputPath: *output,
		Format:     outFormat,
		Limit:      *limit,
		DryRun:     *dryRun,
	})
	if err != nil {
		logger.Error("Verification run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Output written", slog.String("file", written))
}
