package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"uxtrace/internal/model"
)

// ResponsePreview returns a one-line preview of a record's response,
// truncated to width display columns. A response that parses as JSON with a
// non-empty observations array previews as the first observation; other JSON
// previews compact; plain text previews as-is.
func ResponsePreview(rec model.TraceRecord, width int) string {
	if rec.ParseErr != nil {
		return "(unparsed)"
	}
	if len(rec.Response) == 0 {
		return "n/a"
	}

	text := rec.Response[0]
	if parsed, ok := decodeJSONObject(text); ok {
		if obs, ok := firstObservation(parsed); ok {
			text = obs
		} else if compact, err := json.Marshal(parsed); err == nil {
			text = string(compact)
		}
	}

	return Truncate(collapseWhitespace(text), width)
}

// UserPreview returns a one-line preview of the first user message.
func UserPreview(rec model.TraceRecord, width int) string {
	for _, msg := range rec.Messages {
		if msg.Role == model.RoleUser {
			return Truncate(collapseWhitespace(msg.Content), width)
		}
	}
	return "n/a"
}

// CyclePreview labels a record's response preview by its method, for the
// cycle detail section.
func CyclePreview(rec model.TraceRecord, width int) string {
	preview := ResponsePreview(rec, width)
	switch rec.Method {
	case model.MethodObserve:
		return "Observation: " + preview
	case model.MethodPlan:
		return "Plan: " + preview
	case model.MethodAct:
		return "Action: " + preview
	default:
		return preview
	}
}

// Seconds formats a record's duration for table cells; missing durations
// render as n/a rather than a fabricated zero.
func Seconds(rec model.TraceRecord) string {
	if rec.TimeMissing {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", rec.Duration)
}

// Truncate shortens s to width display columns, appending an ellipsis when
// anything was cut. Width-aware so CJK content does not blow out table cells.
func Truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func decodeJSONObject(text string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "{") {
		return nil, false
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

func firstObservation(parsed map[string]any) (string, bool) {
	obs, ok := parsed["observations"].([]any)
	if !ok || len(obs) == 0 {
		return "", false
	}
	first, ok := obs[0].(string)
	return first, ok
}
