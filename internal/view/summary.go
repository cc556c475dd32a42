package view

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"uxtrace/internal/format"
	"uxtrace/internal/model"
	"uxtrace/internal/stats"
	"uxtrace/internal/store"
)

// SummaryFileName is the default summary location, relative to the run.
const SummaryFileName = "api_summary.md"

const (
	timelinePreviewWidth = 60
	cyclePreviewWidth    = 120
)

// SummaryOptions configures WriteSummary.
type SummaryOptions struct {
	RunPath string
	// OutFile overrides the default <run>/api_summary.md location.
	OutFile string
	Out     io.Writer
}

// SummaryResult reports where the summary landed and the non-fatal loader
// failures encountered on the way.
type SummaryResult struct {
	OutFile  string
	Failures []error
}

// WriteSummary composes the run summary and writes it to its designated
// location, overwriting any previous summary. Generation is deterministic:
// unchanged input produces a byte-identical document.
func WriteSummary(opts SummaryOptions) (SummaryResult, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}

	loaded, err := store.LoadRun(opts.RunPath)
	if err != nil {
		return SummaryResult{}, err
	}

	outFile := opts.OutFile
	if outFile == "" {
		outFile = filepath.Join(opts.RunPath, SummaryFileName)
	}

	doc := BuildSummary(filepath.Base(opts.RunPath), loaded)
	if err := writeDocument(outFile, doc); err != nil {
		return SummaryResult{}, err
	}

	fmt.Fprintf(opts.Out, "summary written to %s\n", outFile)
	return SummaryResult{OutFile: outFile, Failures: loaded.Failures}, nil
}

// BuildSummary renders the summary document: timeline, statistics, then the
// cycle detail. Pure so the layout is testable without touching disk.
func BuildSummary(runName string, loaded store.LoadResult) string {
	records := loaded.Records
	runStats := stats.Aggregate(records)
	cycles := stats.GroupCycles(records)

	var b strings.Builder
	b.WriteString("# API Trace Summary\n\n")
	fmt.Fprintf(&b, "Run: %s\n\n", runName)
	fmt.Fprintf(&b, "Trace files: %d\n", len(records))

	if len(loaded.Failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, failure := range loaded.Failures {
			fmt.Fprintf(&b, "- %v\n", failure)
		}
	}

	b.WriteString("\n## Timeline\n\n")
	b.WriteString(format.NewTimelineTable(records, timelinePreviewWidth).RenderMarkdown())
	b.WriteString("\n\n## Method Statistics\n\n")
	b.WriteString(format.NewStatsTable(runStats).RenderMarkdown())
	fmt.Fprintf(&b, "\n\n**Total time**: %.2fs\n", runStats.Overall.Total)

	b.WriteString("\n## Cycles\n")
	for _, cycle := range cycles {
		writeCycle(&b, cycle)
	}

	return b.String()
}

func writeCycle(b *strings.Builder, cycle model.Cycle) {
	suffix := ""
	if cycle.Partial {
		suffix = " (partial)"
	}
	fmt.Fprintf(b, "\n### Cycle %d%s\n\n", cycle.Index, suffix)
	fmt.Fprintf(b, "Total time: %.2fs\n\n", cycle.TotalDuration())

	for _, rec := range cycle.Records {
		fmt.Fprintf(b, "- #%d (%s) %s\n",
			rec.Seq, durationLabel(rec), format.CyclePreview(rec, cyclePreviewWidth))
	}
}

func durationLabel(rec model.TraceRecord) string {
	if rec.TimeMissing {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", rec.Duration)
}
