// Package view composes the loaded record sequence into the output
// documents: per-record Markdown files, the run summary, the terminal
// timeline and the token report.
package view

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"uxtrace/internal/format"
	"uxtrace/internal/store"
)

// FormattedDirName is the default output directory for per-record documents,
// relative to the run.
const FormattedDirName = "api_trace_formatted"

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// FormatOptions configures FormatRun.
type FormatOptions struct {
	RunPath string
	// OutDir overrides the default <run>/api_trace_formatted location.
	OutDir string
	Color  bool
	Out    io.Writer
}

// FormatResult reports what FormatRun produced. Failures holds both loader
// failures and per-file write failures; none of them abort the batch.
type FormatResult struct {
	OutDir   string
	Written  int
	Failures []error
}

// FormatRun writes one Markdown document per successfully parsed record of
// the run. Degraded records are reported, not rendered.
func FormatRun(opts FormatOptions) (FormatResult, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	loaded, err := store.LoadRun(opts.RunPath)
	if err != nil {
		return FormatResult{}, err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = filepath.Join(opts.RunPath, FormattedDirName)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return FormatResult{}, fmt.Errorf("create output dir: %w", err)
	}

	result := FormatResult{OutDir: outDir, Failures: loaded.Failures}
	fmt.Fprintf(opts.Out, "found %d trace files\n", len(loaded.Records))

	for _, rec := range loaded.Records {
		if rec.ParseErr != nil {
			fmt.Fprintf(opts.Out, "%s %s: %v\n", mark(false, opts.Color), filepath.Base(rec.Path), rec.ParseErr)
			continue
		}

		name := format.RecordFileName(rec)
		if err := writeDocument(filepath.Join(outDir, name), format.RenderRecord(rec)); err != nil {
			result.Failures = append(result.Failures, err)
			fmt.Fprintf(opts.Out, "%s %s: %v\n", mark(false, opts.Color), name, err)
			continue
		}

		result.Written++
		fmt.Fprintf(opts.Out, "%s %s (%s)\n", mark(true, opts.Color), name, durationLabel(rec))
	}

	fmt.Fprintf(opts.Out, "wrote %d documents to %s\n", result.Written, outDir)
	return result, nil
}

func mark(ok, color bool) string {
	if ok {
		if color {
			return ansiGreen + "✓" + ansiReset
		}
		return "✓"
	}
	if color {
		return ansiRed + "✗" + ansiReset
	}
	return "✗"
}
