// Package intent maps free-text questions to a structured intent. A
// generative parse runs first; a deterministic keyword parser catches
// everything the backend cannot or does not answer with valid JSON.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyperengineering/boardsight/internal/llm"
)

// Board identifiers an intent can target.
const (
	BoardDeals      = "deals"
	BoardWorkOrders = "work_orders"
)

// Metric names an intent can ask for.
const (
	MetricPipelineValue = "pipeline_value"
	MetricDealCount     = "deal_count"
	MetricRevenue       = "revenue"
	MetricActiveCount   = "active_count"
	MetricColumns       = "columns"
	MetricLeadership    = "leadership"
)

// ErrCouldNotUnderstand is the user-facing text of an unparseable question.
const ErrCouldNotUnderstand = "Could not understand the question"

// Intent is the structured representation of a question. A non-empty Err
// means the question could not be mapped to any metric; all other fields
// are then meaningless.
type Intent struct {
	Board     string `json:"board"`
	Metric    string `json:"metric"`
	Sector    string `json:"sector"`
	Timeframe string `json:"timeframe"`
	Err       string `json:"error,omitempty"`
}

// Resolver parses questions, preferring the generative backend.
type Resolver struct {
	completer llm.Completer
}

// NewResolver creates a Resolver over the given completion backend.
func NewResolver(c llm.Completer) *Resolver {
	return &Resolver{completer: c}
}

const parsePrompt = `You are an intent parser. Parse the user's question into a single JSON object with these keys:
- "board": either "deals" or "work_orders" (default to "deals" if unclear)
- "metric": one of (deal_count, pipeline_value, revenue, active_count, columns, leadership)
- "sector": string or null
- "timeframe": optional string (e.g., "current quarter", "last month") or null

Return ONLY valid JSON and nothing else.

Examples:
Q: "How many deals do we have?"
-> {"board":"deals","metric":"deal_count","sector":null,"timeframe":null}

Q: "What's total revenue this quarter from energy?"
-> {"board":"work_orders","metric":"revenue","sector":"energy","timeframe":"current quarter"}

Question: %s
`

// Parse resolves a question into an Intent. The generative parse is
// authoritative when its response is well-formed JSON; any failure, be it
// a backend error, timeout, or malformed output, falls through to the
// deterministic parser. Parse never returns an error: failure is carried
// as an error-tagged Intent.
func (r *Resolver) Parse(ctx context.Context, question string) Intent {
	text, err := r.completer.Complete(ctx, fmt.Sprintf(parsePrompt, question))
	if err == nil {
		var raw struct {
			Board     string  `json:"board"`
			Metric    string  `json:"metric"`
			Sector    *string `json:"sector"`
			Timeframe *string `json:"timeframe"`
		}
		if jsonErr := json.Unmarshal([]byte(stripFences(text)), &raw); jsonErr == nil {
			in := Intent{Board: raw.Board, Metric: raw.Metric}
			if raw.Sector != nil {
				in.Sector = *raw.Sector
			}
			if raw.Timeframe != nil {
				in.Timeframe = *raw.Timeframe
			}
			return in
		}
		slog.Debug("generative intent parse returned malformed JSON, using fallback")
	} else {
		slog.Debug("generative intent parse failed, using fallback", "error", err)
	}
	return FallbackParse(question)
}

// stripFences removes a surrounding markdown code fence, with or without a
// language tag, from a model response.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
