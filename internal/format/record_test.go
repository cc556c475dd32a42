package format

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"uxtrace/internal/model"
)

func sampleRecord() model.TraceRecord {
	return model.TraceRecord{
		Seq:    3,
		Method: model.MethodObserve,
		Messages: []model.Message{
			{Role: model.RoleSystem, Content: "You are a careful shopper."},
			{Role: model.RoleUser, Content: "<html><body><h1>Shop</h1></body></html>"},
		},
		Response: []string{`{"observations": ["a search box at the top"]}`},
		Duration: 12.5,
	}
}

func TestRecordFileName(t *testing.T) {
	if got := RecordFileName(sampleRecord()); got != "api_trace_3_observe.md" {
		t.Fatalf("unexpected file name: %s", got)
	}
}

func TestRenderRecordSections(t *testing.T) {
	out := RenderRecord(sampleRecord())

	if !strings.HasPrefix(out, "# api_trace_3 (observe)\n") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "**Time**: 12.50s") {
		t.Fatalf("missing time line:\n%s", out)
	}

	sysIdx := strings.Index(out, "### System Prompt")
	userIdx := strings.Index(out, "### User Input")
	respIdx := strings.Index(out, "## Response")
	if sysIdx < 0 || userIdx < 0 || respIdx < 0 {
		t.Fatalf("missing sections:\n%s", out)
	}
	if !(sysIdx < userIdx && userIdx < respIdx) {
		t.Fatalf("sections out of order:\n%s", out)
	}

	// Markup stays inside a fenced block.
	if !strings.Contains(out, "```\n<html><body><h1>Shop</h1></body></html>\n```") {
		t.Fatalf("user markup should be fenced verbatim:\n%s", out)
	}
}

func TestRenderRecordRoleOrderFollowsFirstAppearance(t *testing.T) {
	rec := sampleRecord()
	rec.Messages = []model.Message{
		{Role: model.RoleUser, Content: "first"},
		{Role: model.RoleSystem, Content: "second"},
		{Role: model.RoleUser, Content: "third"},
	}

	out := RenderRecord(rec)
	userIdx := strings.Index(out, "### User Input")
	sysIdx := strings.Index(out, "### System Prompt")
	if userIdx < 0 || sysIdx < 0 || userIdx > sysIdx {
		t.Fatalf("role sections should follow first appearance:\n%s", out)
	}
	// Both user messages land in the single User Input section, in order.
	if strings.Index(out, "first") > strings.Index(out, "third") {
		t.Fatalf("same-role messages out of order:\n%s", out)
	}
}

func TestRenderRecordNoResponse(t *testing.T) {
	rec := sampleRecord()
	rec.Response = nil

	out := RenderRecord(rec)
	if !strings.Contains(out, "(no response)") {
		t.Fatalf("empty response should render a marker:\n%s", out)
	}
}

func TestRenderRecordMissingTime(t *testing.T) {
	rec := sampleRecord()
	rec.Duration = 0
	rec.TimeMissing = true

	out := RenderRecord(rec)
	if !strings.Contains(out, "**Time**: (not recorded)") {
		t.Fatalf("missing time should be stated, not zeroed:\n%s", out)
	}
}

func TestRenderRecordDegraded(t *testing.T) {
	rec := model.TraceRecord{
		Seq:         9,
		Method:      model.MethodUnknown,
		TimeMissing: true,
		ParseErr:    errors.New("unexpected end of JSON input"),
	}

	out := RenderRecord(rec)
	if !strings.Contains(out, "trace could not be parsed") {
		t.Fatalf("degraded record should carry an error marker:\n%s", out)
	}
	if strings.Contains(out, "## Request") {
		t.Fatalf("degraded record should not render empty sections:\n%s", out)
	}
}

func TestRenderRecordLongSystemPromptElided(t *testing.T) {
	rec := sampleRecord()
	var lines []string
	for i := 1; i <= 40; i++ {
		lines = append(lines, fmt.Sprintf("rule %d", i))
	}
	rec.Messages[0].Content = strings.Join(lines, "\n")

	out := RenderRecord(rec)
	if !strings.Contains(out, "(20 lines elided)") {
		t.Fatalf("long system prompt should be elided:\n%s", out)
	}
	if !strings.Contains(out, "rule 1\n") || !strings.Contains(out, "rule 40") {
		t.Fatalf("elision should keep head and tail:\n%s", out)
	}
	if strings.Contains(out, "rule 20\n") {
		t.Fatalf("middle lines should be dropped:\n%s", out)
	}
}

func TestRenderRecordLongResponseElided(t *testing.T) {
	rec := sampleRecord()
	rec.Response = []string{strings.Repeat("word ", 1000)}

	out := RenderRecord(rec)
	if !strings.Contains(out, "(content elided)") {
		t.Fatalf("long response should be elided:\n%s", out)
	}
}

func TestFormatContentJSON(t *testing.T) {
	got := formatContent(`{"a":1}`)
	if !strings.Contains(got, "\"a\": 1") {
		t.Fatalf("JSON content should be indented: %q", got)
	}
}

func TestReflow(t *testing.T) {
	long := strings.Repeat("abc ", 50)
	for _, line := range strings.Split(reflow(long, 100), "\n") {
		if len(line) > 100 {
			t.Fatalf("reflow left a line over width: %q", line)
		}
	}
	if got := reflow("short line", 100); got != "short line" {
		t.Fatalf("short lines should pass through: %q", got)
	}
}
