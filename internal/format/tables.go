package format

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"uxtrace/internal/model"
)

// NewTimelineTable builds the one-row-per-record timeline table. The caller
// picks the rendering (RenderMarkdown for the summary document, Render for
// the terminal).
func NewTimelineTable(records []model.TraceRecord, previewWidth int) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignLeft, AlignHeader: text.AlignCenter, WidthMax: previewWidth},
	})

	tw.AppendHeader(table.Row{"#", "Method", "Time (s)", "Preview"})
	for _, rec := range records {
		tw.AppendRow(table.Row{
			rec.Seq,
			string(rec.Method),
			Seconds(rec),
			ResponsePreview(rec, previewWidth),
		})
	}

	return tw
}

// NewStatsTable builds the per-method statistics table with a trailing row
// aggregating all methods.
func NewStatsTable(st model.RunStats) table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})

	tw.AppendHeader(table.Row{"Method", "Calls", "Total (s)", "Min (s)", "Max (s)", "Mean (s)"})
	for _, ms := range st.PerMethod {
		tw.AppendRow(statsRow(string(ms.Method), ms))
	}
	tw.AppendRow(statsRow("all", st.Overall))

	return tw
}

func statsRow(label string, ms model.MethodStats) table.Row {
	return table.Row{
		label,
		ms.Count,
		fmt.Sprintf("%.2f", ms.Total),
		statValue(ms.Known, ms.Min),
		statValue(ms.Known, ms.Max),
		statValue(ms.Known, ms.Mean),
	}
}

// statValue renders n/a for methods where no record carried a duration.
func statValue(known int, value float64) string {
	if known == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", value)
}
