package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hyperengineering/boardsight/internal/llm"
	"github.com/hyperengineering/boardsight/internal/metrics"
)

// Fixed apology strings for generative failures. The user always gets plain
// text, never an error.
const (
	apologyAnswer  = "Could not generate answer"
	apologySummary = "Could not generate summary"
)

// Synthesizer produces generative free-text answers when the deterministic
// path has nothing to say.
type Synthesizer struct {
	completer llm.Completer
}

// NewSynthesizer creates a Synthesizer over the given completion backend.
func NewSynthesizer(c llm.Completer) *Synthesizer {
	return &Synthesizer{completer: c}
}

// Summary asks the backend to answer the question from the serialized
// metrics. Any backend failure yields a fixed apology string.
func (s *Synthesizer) Summary(ctx context.Context, question string, view MetricsView) string {
	data, err := json.Marshal(view.payload())
	if err != nil {
		slog.Error("failed to serialize metrics for summary", "error", err)
		return apologyAnswer
	}

	prompt := fmt.Sprintf(`You are a business assistant. Answer this question based on the data.

Question: %s
Data: %s

Respond in 2-3 sentences, be specific with numbers.`, question, data)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil || text == "" {
		slog.Warn("generative summary failed", "error", err)
		return apologyAnswer
	}
	return text
}

// LeadershipDigest renders the leadership summary as short bullet points.
// Any backend failure yields a fixed apology string.
func (s *Synthesizer) LeadershipDigest(ctx context.Context, sum metrics.Leadership) string {
	data, err := json.Marshal(sum)
	if err != nil {
		slog.Error("failed to serialize leadership summary", "error", err)
		return apologySummary
	}

	prompt := fmt.Sprintf(`Create a brief leadership summary with bullet points from this data:

%s

Keep it short and clear.`, data)

	text, err := s.completer.Complete(ctx, prompt)
	if err != nil || text == "" {
		slog.Warn("leadership digest failed", "error", err)
		return apologySummary
	}
	return text
}
