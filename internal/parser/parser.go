// Package parser decodes one api_trace JSON file into a model.TraceRecord.
//
// Trace files are written by the agent mid-run and are loosely typed: fields
// go missing, the response is sometimes a bare string instead of a list, and
// interrupted runs leave half-written JSON behind. The parser recovers what
// it can and degrades instead of failing hard.
package parser

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"uxtrace/internal/model"
)

type rawTrace struct {
	Request        json.RawMessage   `json:"request"`
	Response       json.RawMessage   `json:"response"`
	MethodName     string            `json:"method_name"`
	RetrieveResult json.RawMessage   `json:"retrieve_result"`
	Time           *float64          `json:"time"`
	Usage          *model.TokenUsage `json:"usage"`
	Cost           float64           `json:"cost"`
}

type rawMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseRecord decodes data into a TraceRecord with the given sequence number.
// On malformed input it returns a degraded record (Method=unknown, ParseErr
// set) together with the error, so the caller can keep the record in sequence
// while reporting the failure.
func ParseRecord(data []byte, seq int) (model.TraceRecord, error) {
	rec := model.TraceRecord{Seq: seq, Method: model.MethodUnknown, TimeMissing: true}

	var raw rawTrace
	if err := json.Unmarshal(data, &raw); err != nil {
		wrapped := fmt.Errorf("unmarshal trace: %w", err)
		rec.ParseErr = wrapped
		return rec, wrapped
	}

	rec.Method = model.ParseMethod(raw.MethodName)
	rec.Messages = decodeRequest(raw.Request)
	rec.Response = decodeResponse(raw.Response)
	rec.Retrieve = raw.RetrieveResult
	rec.Usage = raw.Usage
	rec.Cost = raw.Cost

	if raw.Time != nil && *raw.Time >= 0 {
		rec.Duration = *raw.Time
		rec.TimeMissing = false
	}

	return rec, nil
}

// decodeRequest extracts the role/content pairs from the request payload.
// The producer writes a list of conversations and only ever fills the first;
// a payload that does not match that shape yields no messages rather than an
// error.
func decodeRequest(raw json.RawMessage) []model.Message {
	if len(raw) == 0 {
		return nil
	}

	var conversations [][]rawMessage
	if err := json.Unmarshal(raw, &conversations); err != nil || len(conversations) == 0 {
		return nil
	}

	messages := make([]model.Message, 0, len(conversations[0]))
	for _, msg := range conversations[0] {
		messages = append(messages, model.Message{
			Role:    model.ParseRole(msg.Role),
			Content: sanitize(msg.Content),
		})
	}
	return messages
}

// decodeResponse tolerates the three shapes the producer has been seen to
// write: a list of strings, a bare string, and a list of arbitrary values.
func decodeResponse(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var asList []string
	if err := json.Unmarshal(raw, &asList); err == nil {
		for i, item := range asList {
			asList[i] = sanitize(item)
		}
		return asList
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return []string{sanitize(asString)}
	}

	var asAny []json.RawMessage
	if err := json.Unmarshal(raw, &asAny); err == nil {
		items := make([]string, 0, len(asAny))
		for _, item := range asAny {
			items = append(items, sanitize(string(item)))
		}
		return items
	}

	return nil
}

// sanitize replaces undecodable bytes with U+FFFD so unreadable content shows
// up as a visible marker instead of aborting the record.
func sanitize(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, string(utf8.RuneError))
}
