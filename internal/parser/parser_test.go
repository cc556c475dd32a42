package parser

import (
	"strings"
	"testing"

	"uxtrace/internal/model"
)

func TestParseRecord(t *testing.T) {
	data := []byte(`{
		"request": [[
			{"role": "system", "content": "You are a careful shopper."},
			{"role": "user", "content": "<html><body>page</body></html>"}
		]],
		"response": ["{\"observations\": [\"a search box\"]}"],
		"method_name": "observe",
		"retrieve_result": {"hits": 3},
		"time": 12.5
	}`)

	rec, err := ParseRecord(data, 4)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}

	if rec.Seq != 4 {
		t.Fatalf("unexpected seq: %d", rec.Seq)
	}
	if rec.Method != model.MethodObserve {
		t.Fatalf("unexpected method: %s", rec.Method)
	}
	if len(rec.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(rec.Messages))
	}
	if rec.Messages[0].Role != model.RoleSystem || rec.Messages[1].Role != model.RoleUser {
		t.Fatalf("unexpected roles: %v %v", rec.Messages[0].Role, rec.Messages[1].Role)
	}
	if len(rec.Response) != 1 || !strings.Contains(rec.Response[0], "observations") {
		t.Fatalf("unexpected response: %v", rec.Response)
	}
	if rec.TimeMissing || rec.Duration != 12.5 {
		t.Fatalf("unexpected duration: %v missing=%v", rec.Duration, rec.TimeMissing)
	}
	if string(rec.Retrieve) != `{"hits": 3}` {
		t.Fatalf("retrieve_result not passed through: %s", rec.Retrieve)
	}
}

func TestParseRecordPerceiveAlias(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"method_name": "perceive", "time": 1}`), 1)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}
	if rec.Method != model.MethodObserve {
		t.Fatalf("perceive should map to observe, got %s", rec.Method)
	}
}

func TestParseRecordDefaults(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"response": "plain text"}`), 2)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}

	if rec.Method != model.MethodUnknown {
		t.Fatalf("missing method_name should default to unknown, got %s", rec.Method)
	}
	if !rec.TimeMissing || rec.Duration != 0 {
		t.Fatalf("missing time should be flagged, got %v missing=%v", rec.Duration, rec.TimeMissing)
	}
	if len(rec.Response) != 1 || rec.Response[0] != "plain text" {
		t.Fatalf("scalar response should be lifted to a slice, got %v", rec.Response)
	}
}

func TestParseRecordNegativeTime(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"method_name": "plan", "time": -3}`), 1)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}
	if !rec.TimeMissing {
		t.Fatal("negative time should be treated as missing")
	}
}

func TestParseRecordMalformed(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"request": [[`), 7)
	if err == nil {
		t.Fatal("expected error for malformed JSON")
	}

	if rec.Seq != 7 {
		t.Fatalf("degraded record should keep its sequence number, got %d", rec.Seq)
	}
	if rec.Method != model.MethodUnknown {
		t.Fatalf("degraded record should have unknown method, got %s", rec.Method)
	}
	if rec.ParseErr == nil {
		t.Fatal("degraded record should carry the parse error")
	}
}

func TestParseRecordInvalidUTF8(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"method_name": "act", "response": ["ok"], "time": 1}`), 1)
	if err != nil {
		t.Fatalf("ParseRecord returned error: %v", err)
	}
	if rec.Response[0] != "ok" {
		t.Fatalf("unexpected response: %q", rec.Response[0])
	}

	if got := sanitize("bad\xffbyte"); !strings.Contains(got, "�") {
		t.Fatalf("invalid bytes should be replaced with a marker, got %q", got)
	}
}
