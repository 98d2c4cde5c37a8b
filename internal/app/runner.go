// Package app wires the verification pipeline together: input loading,
// registry lookups, optional business checks, and output generation.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"dnclcli/internal/business"
	"dnclcli/internal/config"
	"dnclcli/internal/dataprocessing"
	"dnclcli/internal/dncl"
	"dnclcli/internal/exporter"
	"dnclcli/internal/infrastructure"
)

// Options are the per-invocation settings from the command line.
type Options struct {
	InputPath  string
	OutputPath string // empty derives <stem>_verified_<timestamp> beside the input
	Format     exporter.Format
	Limit      int  // cap on lookups, 0 = no cap
	DryRun     bool // skip the browser, mark everything Unknown
}

// Runner executes one verification run end to end.
type Runner struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
}

// NewRunner creates a runner from loaded configuration.
func NewRunner(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, paths: paths, logger: logger}
}

// Run loads the input, verifies each extracted number serially, and writes
// the augmented spreadsheet. Cancellation stops after the in-flight number
// but still writes the output with partial results. Returns the path of the
// written output file.
func (r *Runner) Run(ctx context.Context, opts Options) (string, error) {
	table, err := dataprocessing.LoadFile(opts.InputPath)
	if err != nil {
		return "", fmt.Errorf("failed to load input: %w", err)
	}

	entries := dataprocessing.ExtractPhoneEntries(table)
	if len(entries) == 0 {
		r.logger.Warn("No verifiable phone numbers found in input",
			slog.String("file", opts.InputPath))
	}

	if opts.Limit > 0 && len(entries) > opts.Limit {
		r.logger.Info("Limiting lookups",
			slog.Int("total", len(entries)),
			slog.Int("limit", opts.Limit))
		entries = entries[:opts.Limit]
	}

	attemptLog := exporter.NewAttemptLog(r.paths)
	ctx = infrastructure.WithTraceID(ctx, attemptLog.RunID())
	r.logger.Info("Starting verification run",
		slog.String("run_id", attemptLog.RunID()),
		slog.Int("entries", len(entries)),
		slog.Bool("dry_run", opts.DryRun))

	results := exporter.NewResultSet(table)

	var checker *dncl.Checker
	if !opts.DryRun && len(entries) > 0 {
		checker = dncl.NewChecker(r.cfg.Browser, r.cfg.Lookup, r.logger)
		if err := checker.Start(ctx); err != nil {
			return "", err
		}
		defer checker.Close()
	}

	bizChecker := business.NewChecker(r.cfg.Serper, r.logger)

	// One lookup per MinDelay keeps the pace the registry site expects.
	limiter := rate.NewLimiter(rate.Every(r.cfg.Lookup.MinDelay), 1)

	for i, entry := range entries {
		if err := limiter.Wait(ctx); err != nil {
			r.logger.Warn("Run interrupted, writing partial results",
				slog.Int("completed", i),
				slog.Int("total", len(entries)))
			break
		}

		r.logger.Info("Processing entry",
			slog.Int("number", i+1),
			slog.Int("total", len(entries)),
			slog.Int("row", entry.RowIndex),
			slog.String("phone", entry.Normalized),
			slog.String("source_column", entry.SourceColumn))

		var result dncl.Result
		if opts.DryRun {
			result = dncl.Result{
				Phone:  entry.Normalized,
				Status: dncl.StatusUnknown,
				Err:    "dry run",
			}
		} else {
			result = checker.Verify(ctx, entry.Normalized)
		}
		attemptLog.Record(entry.Normalized, string(result.Status), result.Err)

		var biz *business.CheckResult
		if !opts.DryRun && bizChecker.IsConfigured() {
			company := table.Cell(entry.RowIndex, "Société")
			check := bizChecker.CheckPhone(ctx, entry.Normalized, company)
			biz = &check
		}

		results.AddResult(entry, result, biz)
	}

	outPath := opts.OutputPath
	if outPath == "" {
		outPath = exporter.OutputFilename(opts.InputPath, opts.Format, time.Now())
	}

	headers, rows := results.Build()
	written, err := exporter.Save(outPath, opts.Format, headers, rows)
	if err != nil {
		return "", fmt.Errorf("failed to write output: %w", err)
	}

	summary := results.Summarize()
	r.logger.Info("Verification run complete",
		slog.String("output", written),
		slog.Int("total_rows", summary.TotalRows),
		slog.Int("verified_rows", summary.VerifiedRows),
		slog.Int("on_list", summary.OnList),
		slog.Int("not_on_list", summary.NotOnList),
		slog.Int("unknown", summary.Unknown))

	return written, nil
}
