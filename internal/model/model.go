// Package model defines the types shared by the trace loading, grouping
// and rendering packages.
package model

import "encoding/json"

// Method identifies which agent method produced a trace record.
type Method string

const (
	MethodObserve Method = "observe"
	MethodPlan    Method = "plan"
	MethodAct     Method = "act"
	MethodUnknown Method = "unknown"
)

// ParseMethod normalizes a raw method_name value. Older traces name the
// observe phase "perceive"; anything unrecognized maps to MethodUnknown.
func ParseMethod(raw string) Method {
	switch raw {
	case "observe", "perceive":
		return MethodObserve
	case "plan":
		return MethodPlan
	case "act":
		return MethodAct
	default:
		return MethodUnknown
	}
}

// Role identifies the sender of a request message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
	RoleOther  Role = "other"
)

// ParseRole normalizes a raw role value.
func ParseRole(raw string) Role {
	switch raw {
	case "system":
		return RoleSystem
	case "user":
		return RoleUser
	default:
		return RoleOther
	}
}

// Message is one role/content pair from a trace request.
type Message struct {
	Role    Role
	Content string
}

// TokenUsage carries the optional accounting block the agent attaches to
// each trace.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TraceRecord is one parsed api_trace file: a single LLM invocation.
type TraceRecord struct {
	// Seq is the numeric suffix embedded in the file name. Strictly
	// increasing across a loaded run; gaps are allowed.
	Seq      int
	Method   Method
	Messages []Message
	Response []string
	// Duration is the recorded wall time in seconds. When the time field
	// is absent (or negative) Duration is 0 and TimeMissing is set so the
	// renderers can say so instead of showing a fabricated zero.
	Duration    float64
	TimeMissing bool
	// Retrieve is the retrieve_result payload, passed through unparsed.
	Retrieve json.RawMessage
	Usage    *TokenUsage
	Cost     float64
	// ParseErr marks a degraded record: the file existed but could not be
	// parsed. Degraded records keep their slot in the sequence so record
	// counts match file counts.
	ParseErr error
	Path     string
}

// Cycle is a maximal run of consecutive records forming one
// observe→plan→act iteration.
type Cycle struct {
	Index   int
	Records []TraceRecord
	// Partial is set unless observe, plan and act all appear in the cycle.
	Partial bool
}

// TotalDuration sums the recorded durations of the cycle members.
// Missing durations contribute nothing.
func (c Cycle) TotalDuration() float64 {
	var total float64
	for _, rec := range c.Records {
		if !rec.TimeMissing {
			total += rec.Duration
		}
	}
	return total
}

// MethodStats aggregates call counts and timings for one method.
// Records without a recorded duration count toward Count but are excluded
// from Total, Min, Max and Mean; Known says how many contributed.
type MethodStats struct {
	Method Method
	Count  int
	Known  int
	Total  float64
	Min    float64
	Max    float64
	Mean   float64
}

// RunStats holds the per-method aggregates (sorted by method name) plus an
// overall aggregate across every record.
type RunStats struct {
	PerMethod []MethodStats
	Overall   MethodStats
}
