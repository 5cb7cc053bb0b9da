package intent

import "strings"

var stopwords = map[string]bool{
	"is": true, "are": true, "the": true, "a": true, "an": true,
	"in": true, "from": true, "for": true, "of": true, "by": true,
	"what": true, "how": true, "much": true, "many": true, "do": true,
	"does": true, "did": true, "have": true, "has": true, "we": true,
	"our": true, "you": true, "your": true, "please": true,
}

var metricWords = map[string]bool{
	"revenue": true, "pipeline": true, "deal": true, "deals": true,
	"count": true, "columns": true, "summary": true, "leadership": true,
	"work": true, "orders": true, "work_orders": true, "total": true,
}

// noSectorWords are no-filter sentinels: a question ending in one of these
// is asking about everything, so scanning stops without a sector.
var noSectorWords = map[string]bool{
	"all": true, "any": true, "none": true, "overall": true, "total": true,
}

// FallbackParse is the deterministic rule-based parser. The metric checks
// run in a fixed order where later matches overwrite earlier ones; a
// question matching both deal and revenue keywords therefore resolves to
// revenue. Callers depend on that ordering.
func FallbackParse(question string) Intent {
	q := strings.ToLower(question)

	in := Intent{Board: BoardDeals}
	if strings.Contains(q, "work") {
		in.Board = BoardWorkOrders
	}

	if strings.Contains(q, "pipeline") {
		in.Metric = MetricPipelineValue
	}
	if strings.Contains(q, "deal") {
		in.Metric = MetricDealCount
	}
	if strings.Contains(q, "revenue") {
		in.Metric = MetricRevenue
	}
	if strings.Contains(q, "column") {
		in.Metric = MetricColumns
	}
	if strings.Contains(q, "summary") || strings.Contains(q, "leadership") || strings.Contains(q, "board") {
		in.Metric = MetricLeadership
	}

	in.Sector = sectorCandidate(q)

	if in.Metric == "" {
		return Intent{Err: ErrCouldNotUnderstand}
	}
	return in
}

// sectorCandidate scans tokens in reverse for the last word that could name
// a sector, skipping stopwords, metric keywords, digits, and single
// characters. Hitting a no-filter sentinel stops the scan entirely rather
// than continuing to earlier tokens.
func sectorCandidate(q string) string {
	tokens := strings.Fields(q)
	for i := len(tokens) - 1; i >= 0; i-- {
		t := strings.Trim(tokens[i], `?,.!"'`)
		if t == "" {
			continue
		}
		if stopwords[t] || metricWords[t] {
			continue
		}
		if isDigits(t) {
			continue
		}
		if len(t) < 2 {
			continue
		}
		if noSectorWords[t] {
			return ""
		}
		return t
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
