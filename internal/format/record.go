// Package format renders trace records into Markdown documents, previews and
// tables.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"uxtrace/internal/model"
)

const (
	// reflowWidth is the target line width for prose content.
	reflowWidth = 100
	// systemElideLines is the line count above which a system prompt is
	// shown as head and tail only.
	systemElideLines = 20
	// contentElideChars is the character count above which user input and
	// responses are shown as head and tail only.
	contentElideChars = 2000
)

// RecordFileName returns the output name for a record's formatted document,
// embedding both the sequence number and the method.
func RecordFileName(rec model.TraceRecord) string {
	return fmt.Sprintf("api_trace_%d_%s.md", rec.Seq, rec.Method)
}

// RenderRecord renders one trace record as a self-contained Markdown
// document: title, metadata, one section per message role in first-appearance
// order, then the response.
func RenderRecord(rec model.TraceRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# api_trace_%d (%s)\n\n", rec.Seq, rec.Method)
	fmt.Fprintf(&b, "**Method**: %s\n", rec.Method)
	if rec.TimeMissing {
		b.WriteString("**Time**: (not recorded)\n")
	} else {
		fmt.Fprintf(&b, "**Time**: %.2fs\n", rec.Duration)
	}

	if rec.ParseErr != nil {
		fmt.Fprintf(&b, "**Error**: trace could not be parsed: %v\n", rec.ParseErr)
		return b.String()
	}

	b.WriteString("\n## Request\n")
	for _, role := range roleOrder(rec.Messages) {
		fmt.Fprintf(&b, "\n### %s\n", roleHeading(role))
		for _, msg := range rec.Messages {
			if msg.Role != role {
				continue
			}
			b.WriteString("\n")
			writeRoleContent(&b, role, msg.Content)
		}
	}

	b.WriteString("\n## Response\n\n")
	if len(rec.Response) == 0 {
		b.WriteString("(no response)\n")
		return b.String()
	}
	for i, text := range rec.Response {
		if i > 0 {
			b.WriteString("\n")
		}
		body := elideChars(formatContent(text), 1500, 500)
		writeFence(&b, body)
	}

	return b.String()
}

// roleOrder returns the distinct roles in the order they first appear.
func roleOrder(messages []model.Message) []model.Role {
	var order []model.Role
	seen := map[model.Role]bool{}
	for _, msg := range messages {
		if !seen[msg.Role] {
			seen[msg.Role] = true
			order = append(order, msg.Role)
		}
	}
	return order
}

func roleHeading(role model.Role) string {
	switch role {
	case model.RoleSystem:
		return "System Prompt"
	case model.RoleUser:
		return "User Input"
	default:
		return "Other Messages"
	}
}

func writeRoleContent(b *strings.Builder, role model.Role, content string) {
	if role == model.RoleSystem {
		// System prompts are long and repetitive; keep them verbatim but
		// show only the head and tail past the line threshold.
		writeFence(b, elideLines(content, systemElideLines))
		return
	}
	body := elideChars(formatContent(content), 1000, 1000)
	writeFence(b, body)
}

func writeFence(b *strings.Builder, body string) {
	b.WriteString("```\n")
	b.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}

// formatContent pretty-prints content that parses as JSON and reflows
// anything else to reflowWidth columns.
func formatContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(trimmed), "", "  "); err == nil {
			return buf.String()
		}
	}
	return reflow(content, reflowWidth)
}

// reflow wraps long lines at word boundaries; short lines pass through.
func reflow(content string, width int) string {
	lines := strings.Split(content, "\n")
	var out []string
	for _, line := range lines {
		if len(line) <= width {
			out = append(out, line)
			continue
		}
		words := strings.Split(line, " ")
		current := ""
		for _, word := range words {
			switch {
			case current == "":
				current = word
			case len(current)+1+len(word) > width:
				out = append(out, current)
				current = word
			default:
				current += " " + word
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}

// elideLines keeps the first and last max/2 lines of content, replacing the
// middle with a marker stating how many lines were dropped.
func elideLines(content string, max int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= max {
		return content
	}
	keep := max / 2
	head := strings.Join(lines[:keep], "\n")
	tail := strings.Join(lines[len(lines)-keep:], "\n")
	return fmt.Sprintf("%s\n\n... (%d lines elided) ...\n\n%s", head, len(lines)-max, tail)
}

// elideChars keeps the first head and last tail bytes of content when it
// exceeds contentElideChars. Cuts are aligned to rune boundaries.
func elideChars(content string, head, tail int) string {
	if len(content) <= contentElideChars {
		return content
	}
	runes := []rune(content)
	if len(runes) <= head+tail {
		return content
	}
	return fmt.Sprintf("%s\n\n... (content elided) ...\n\n%s",
		string(runes[:head]), string(runes[len(runes)-tail:]))
}
