package cost

import (
	"encoding/json"
	"fmt"
	"os"

	"uxtrace/internal/model"
)

// ReportFileName is the token report location, relative to the run.
const ReportFileName = "token_report.json"

// Report sums the token usage and cost the agent recorded across one run.
type Report struct {
	TraceFiles            int            `json:"trace_files"`
	TotalPromptTokens     int            `json:"total_prompt_tokens"`
	TotalCompletionTokens int            `json:"total_completion_tokens"`
	TotalTokens           int            `json:"total_tokens"`
	TotalCost             float64        `json:"total_cost"`
	TotalCostFormatted    string         `json:"total_cost_formatted"`
	MethodCalls           map[string]int `json:"method_calls"`
}

// BuildReport aggregates usage and cost over the record sequence. Records
// without a usage block still count as calls.
func BuildReport(records []model.TraceRecord) Report {
	report := Report{
		TraceFiles:  len(records),
		MethodCalls: map[string]int{},
	}

	for _, rec := range records {
		report.MethodCalls[string(rec.Method)]++
		if rec.Usage != nil {
			report.TotalPromptTokens += rec.Usage.PromptTokens
			report.TotalCompletionTokens += rec.Usage.CompletionTokens
			report.TotalTokens += rec.Usage.TotalTokens
		}
		report.TotalCost += rec.Cost
	}

	report.TotalCostFormatted = FormatCost(report.TotalCost)
	return report
}

// WriteReport writes the report as indented JSON through a temp file and
// rename, overwriting any previous report.
func WriteReport(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal token report: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write token report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename token report: %w", err)
	}
	return nil
}
