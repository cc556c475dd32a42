// Command uxtrace renders and summarizes the API traces written by the
// web-browsing agent: one Markdown document per trace, a run summary, a
// terminal timeline and a token/cost report.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"uxtrace/internal/cost"
	"uxtrace/internal/store"
	"uxtrace/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "uxtrace",
	Short: "Render and summarize agent API traces",
}

func init() {
	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newTimelineCmd())
	rootCmd.AddCommand(newReportCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "uxtrace: %v\n", err)
		os.Exit(1)
	}
}

func newFormatCmd() *cobra.Command {
	var (
		outputDir    string
		forceColor   bool
		forceNoColor bool
	)

	cmd := &cobra.Command{
		Use:   "format <run-path>",
		Short: "Write one Markdown document per trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if forceColor && forceNoColor {
				return errors.New("--color and --no-color cannot be used together")
			}

			out := cmd.OutOrStdout()
			result, err := view.FormatRun(view.FormatOptions{
				RunPath: args[0],
				OutDir:  outputDir,
				Color:   resolveColorChoice(out, forceColor, forceNoColor),
				Out:     out,
			})
			if err != nil {
				return err
			}

			reportFailures(cmd.ErrOrStderr(), result.Failures)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputDir, "output", "o", "", "output directory (default: <run-path>/api_trace_formatted)")
	flags.BoolVar(&forceColor, "color", false, "force colored progress output")
	flags.BoolVar(&forceNoColor, "no-color", false, "disable colored progress output")

	return cmd
}

func newSummaryCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "summary <run-path>",
		Short: "Generate the run summary document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := view.WriteSummary(view.SummaryOptions{
				RunPath: args[0],
				OutFile: outputFile,
				Out:     cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			reportFailures(cmd.ErrOrStderr(), result.Failures)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <run-path>/api_summary.md)")

	return cmd
}

func newTimelineCmd() *cobra.Command {
	var wrap int

	cmd := &cobra.Command{
		Use:   "timeline <run-path>",
		Short: "Print the run timeline and statistics to the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			outFile, _ := out.(*os.File)

			return view.RunTimeline(view.TimelineOptions{
				RunPath: args[0],
				Wrap:    wrap,
				Out:     out,
				OutFile: outFile,
				Errs:    cmd.ErrOrStderr(),
			})
		},
	}

	cmd.Flags().IntVar(&wrap, "wrap", 0, "table width (0 means detect from the terminal)")

	return cmd
}

func newReportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "report <run-path>",
		Short: "Sum token usage and cost into token_report.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runPath := args[0]

			loaded, err := store.LoadRun(runPath)
			if err != nil {
				return err
			}
			reportFailures(cmd.ErrOrStderr(), loaded.Failures)

			report := cost.BuildReport(loaded.Records)
			outFile := outputFile
			if outFile == "" {
				outFile = filepath.Join(runPath, cost.ReportFileName)
			}
			if err := cost.WriteReport(outFile, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "trace files: %d\n", report.TraceFiles)
			fmt.Fprintf(out, "total tokens: %d (prompt %d, completion %d)\n",
				report.TotalTokens, report.TotalPromptTokens, report.TotalCompletionTokens)
			fmt.Fprintf(out, "total cost: %s\n", report.TotalCostFormatted)
			fmt.Fprintln(out, "method calls:")
			for _, method := range sortedKeys(report.MethodCalls) {
				fmt.Fprintf(out, "  - %s: %d\n", method, report.MethodCalls[method])
			}
			fmt.Fprintf(out, "report written to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <run-path>/token_report.json)")

	return cmd
}

func reportFailures(w io.Writer, failures []error) {
	for _, failure := range failures {
		fmt.Fprintf(w, "warning: %v\n", failure)
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func resolveColorChoice(out io.Writer, forceColor, forceNoColor bool) bool {
	if forceColor {
		return true
	}
	if forceNoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
