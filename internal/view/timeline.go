package view

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"uxtrace/internal/format"
	"uxtrace/internal/stats"
	"uxtrace/internal/store"
)

// TimelineOptions configures RunTimeline.
type TimelineOptions struct {
	RunPath string
	// Wrap forces a total table width; 0 means size from the terminal.
	Wrap int
	Out  io.Writer
	// OutFile is the underlying file of Out when there is one, used for
	// terminal width detection.
	OutFile *os.File
	Errs    io.Writer
}

// RunTimeline prints the timeline and statistics tables to the terminal, for
// a quick look at a run without writing any files.
func RunTimeline(opts TimelineOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Errs == nil {
		opts.Errs = os.Stderr
	}

	loaded, err := store.LoadRun(opts.RunPath)
	if err != nil {
		return err
	}
	for _, failure := range loaded.Failures {
		fmt.Fprintf(opts.Errs, "warning: %v\n", failure)
	}

	width := determineWidth(opts.OutFile, opts.Wrap)
	// Leave room for the seq, method and time columns plus borders.
	previewWidth := width - 30
	if previewWidth < 20 {
		previewWidth = 20
	}

	timeline := format.NewTimelineTable(loaded.Records, previewWidth)
	timeline.SetOutputMirror(opts.Out)
	_ = timeline.Render()

	runStats := stats.Aggregate(loaded.Records)
	statsTable := format.NewStatsTable(runStats)
	statsTable.SetOutputMirror(opts.Out)
	_ = statsTable.Render()

	fmt.Fprintf(opts.Out, "Total time: %.2fs\n", runStats.Overall.Total)
	return nil
}

func determineWidth(out *os.File, wrap int) int {
	if wrap > 0 {
		return wrap
	}
	if out != nil {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if colsStr := os.Getenv("COLUMNS"); colsStr != "" {
		if v, err := strconv.Atoi(colsStr); err == nil && v > 0 {
			return v
		}
	}
	return 80
}
