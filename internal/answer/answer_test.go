package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperengineering/boardsight/internal/board"
	"github.com/hyperengineering/boardsight/internal/intent"
	"github.com/hyperengineering/boardsight/internal/metrics"
)

func dealsMetrics() metrics.DealsMetrics {
	return metrics.DealsMetrics{
		TotalPipeline: 1234567.4,
		DealCount:     42,
		BySector: map[string]metrics.SectorStats{
			"energy": {Pipeline: 1000000, Count: 30},
		},
		SectorOrder: []string{"energy"},
	}
}

func TestFromMetrics_DealCount(t *testing.T) {
	got, ok := FromMetrics(intent.Intent{Metric: intent.MetricDealCount}, DealsView(dealsMetrics()))
	if !ok {
		t.Fatal("FromMetrics() not ok, want deterministic answer")
	}
	if !strings.Contains(got, "42") {
		t.Errorf("answer = %q, want it to contain %q", got, "42")
	}
}

func TestFromMetrics_DealCountSynonyms(t *testing.T) {
	for _, m := range []string{"deals", "count", "number_of_deals", "DEAL_COUNT"} {
		if _, ok := FromMetrics(intent.Intent{Metric: m}, DealsView(dealsMetrics())); !ok {
			t.Errorf("metric %q not recognized as deal count", m)
		}
	}
}

func TestFromMetrics_PipelineFormatting(t *testing.T) {
	got, ok := FromMetrics(intent.Intent{Metric: intent.MetricPipelineValue}, DealsView(dealsMetrics()))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "$1,234,567") {
		t.Errorf("answer = %q, want thousands-separated currency with no decimals", got)
	}
}

func TestFromMetrics_SectorPipeline(t *testing.T) {
	in := intent.Intent{Metric: intent.MetricPipelineValue, Sector: "energy"}
	got, ok := FromMetrics(in, SectorBucketView("energy", metrics.SectorStats{Pipeline: 250000, Count: 7}))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "energy") || !strings.Contains(got, "7") || !strings.Contains(got, "$250,000") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_RevenueAgainstWorkOrders(t *testing.T) {
	wm := metrics.WorkOrdersMetrics{TotalRevenue: 500000, ActiveCount: 3}
	got, ok := FromMetrics(intent.Intent{Metric: intent.MetricRevenue}, WorkOrdersView(wm))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "Total revenue") || !strings.Contains(got, "$500,000") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_RevenueReinterpretedAsPipeline(t *testing.T) {
	// A revenue question against deals metrics reports pipeline instead.
	got, ok := FromMetrics(intent.Intent{Metric: intent.MetricRevenue, Board: intent.BoardDeals}, DealsView(dealsMetrics()))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "interpreted as revenue") {
		t.Errorf("answer = %q, want reinterpretation wording", got)
	}
}

func TestFromMetrics_RevenueAgainstSectorBucket(t *testing.T) {
	in := intent.Intent{Metric: intent.MetricRevenue, Sector: "energy"}
	got, ok := FromMetrics(in, SectorBucketView("energy", metrics.SectorStats{Pipeline: 90000, Count: 2}))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "interpreted from pipeline") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_RevenueAgainstScalar(t *testing.T) {
	got, ok := FromMetrics(intent.Intent{Metric: "total_revenue"}, ScalarView(1500))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "$1,500") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_ActiveCount(t *testing.T) {
	wm := metrics.WorkOrdersMetrics{ActiveCount: 12}
	in := intent.Intent{Metric: intent.MetricActiveCount, Board: intent.BoardWorkOrders}
	got, ok := FromMetrics(in, WorkOrdersView(wm))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "Active work orders: 12") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_Columns(t *testing.T) {
	cols := []board.ColumnMeta{
		{ID: "a", Title: "Amount"},
		{ID: "b", Title: "Sector"},
		{ID: "c"},
	}
	got, ok := FromMetrics(intent.Intent{Metric: intent.MetricColumns}, ColumnListView(cols))
	if !ok {
		t.Fatal("not ok")
	}
	if !strings.Contains(got, "3 columns") || !strings.Contains(got, "Amount, Sector, c") {
		t.Errorf("answer = %q", got)
	}
}

func TestFromMetrics_ColumnsTruncatedAtTen(t *testing.T) {
	cols := make([]board.ColumnMeta, 12)
	for i := range cols {
		cols[i] = board.ColumnMeta{ID: string(rune('a' + i)), Title: string(rune('A' + i))}
	}
	got, _ := FromMetrics(intent.Intent{Metric: intent.MetricColumns}, ColumnListView(cols))
	if !strings.Contains(got, "12 columns") || !strings.HasSuffix(got, "...") {
		t.Errorf("answer = %q, want truncation marker", got)
	}
}

func TestFromMetrics_NoRuleMatches(t *testing.T) {
	if _, ok := FromMetrics(intent.Intent{Metric: ""}, DealsView(dealsMetrics())); ok {
		t.Error("empty metric should not produce an answer")
	}
	if _, ok := FromMetrics(intent.Intent{Metric: intent.MetricLeadership}, DealsView(dealsMetrics())); ok {
		t.Error("leadership metric has no deterministic rendering here")
	}
	if _, ok := FromMetrics(intent.Intent{Metric: intent.MetricDealCount}, ScalarView(5)); ok {
		t.Error("deal count against a scalar should fall through")
	}
}

// mockCompleter implements llm.Completer for testing
type mockCompleter struct {
	response   string
	err        error
	lastPrompt string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.response, m.err
}

func (m *mockCompleter) ModelName() string { return "mock" }

func TestSummary_IncludesSerializedMetrics(t *testing.T) {
	c := &mockCompleter{response: "Pipeline looks healthy."}
	s := NewSynthesizer(c)

	got := s.Summary(context.Background(), "how are we doing?", DealsView(dealsMetrics()))
	if got != "Pipeline looks healthy." {
		t.Errorf("Summary() = %q", got)
	}
	if !strings.Contains(c.lastPrompt, "how are we doing?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(c.lastPrompt, "total_pipeline") {
		t.Error("prompt missing serialized metrics")
	}
}

func TestSummary_ApologyOnFailure(t *testing.T) {
	c := &mockCompleter{err: errors.New("backend down")}
	s := NewSynthesizer(c)

	got := s.Summary(context.Background(), "q", DealsView(dealsMetrics()))
	if got != "Could not generate answer" {
		t.Errorf("Summary() = %q, want fixed apology", got)
	}
}

func TestLeadershipDigest_ApologyOnFailure(t *testing.T) {
	c := &mockCompleter{err: errors.New("backend down")}
	s := NewSynthesizer(c)

	got := s.LeadershipDigest(context.Background(), metrics.Leadership{})
	if got != "Could not generate summary" {
		t.Errorf("LeadershipDigest() = %q, want fixed apology", got)
	}
}

func TestLeadershipDigest_Success(t *testing.T) {
	c := &mockCompleter{response: "- Pipeline: $650"}
	s := NewSynthesizer(c)

	sum := metrics.Leadership{TotalPipeline: 650, TopSectors: []metrics.SectorRank{{Sector: "space", Pipeline: 300}}}
	got := s.LeadershipDigest(context.Background(), sum)
	if got != "- Pipeline: $650" {
		t.Errorf("LeadershipDigest() = %q", got)
	}
	if !strings.Contains(c.lastPrompt, "top_sectors") {
		t.Error("prompt missing serialized summary")
	}
}
