// Package answer turns a resolved intent plus computed metrics into final
// text: a deterministic rendering when a rule matches, a generative summary
// otherwise.
package answer

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hyperengineering/boardsight/internal/intent"
)

// FromMetrics renders a deterministic answer for the intent against the
// given view. The second return is false when no rule matches, which
// signals the caller to fall back to a generative summary rather than an
// error.
func FromMetrics(in intent.Intent, view MetricsView) (string, bool) {
	if in.Metric == "" {
		return "", false
	}

	switch m := strings.ToLower(in.Metric); {
	case isDealCountMetric(m):
		if view.Kind == ViewDeals {
			return fmt.Sprintf("Total deals: %s", count(view.Deals.DealCount)), true
		}
		return "", false

	case isPipelineMetric(m):
		switch view.Kind {
		case ViewSectorBucket:
			if in.Sector != "" {
				return sectorLine(in.Sector, view.Bucket.Count, "pipeline", view.Bucket.Pipeline), true
			}
			return fmt.Sprintf("Total pipeline value: %s", money(view.Bucket.Pipeline)), true
		case ViewDeals:
			return fmt.Sprintf("Total pipeline value: %s", money(view.Deals.TotalPipeline)), true
		case ViewScalar:
			return fmt.Sprintf("Total pipeline value: %s", money(view.Scalar)), true
		}
		return "", false

	case isRevenueMetric(m):
		// A revenue ask against deals-shaped metrics is deliberately
		// reinterpreted as pipeline. Fallback chain: total_revenue →
		// sector pipeline → total_pipeline → bare number → no answer.
		switch view.Kind {
		case ViewWorkOrders:
			return fmt.Sprintf("Total revenue: %s", money(view.WorkOrders.TotalRevenue)), true
		case ViewSectorBucket:
			if view.Bucket.Count > 0 {
				return sectorLine(in.Sector, view.Bucket.Count, "revenue (interpreted from pipeline)", view.Bucket.Pipeline), true
			}
			return fmt.Sprintf("Revenue (interpreted from pipeline): %s", money(view.Bucket.Pipeline)), true
		case ViewDeals:
			return fmt.Sprintf("Total pipeline (interpreted as revenue): %s", money(view.Deals.TotalPipeline)), true
		case ViewScalar:
			return fmt.Sprintf("Total revenue: %s", money(view.Scalar)), true
		}
		return "", false

	case m == intent.MetricActiveCount:
		if view.Kind == ViewWorkOrders {
			if in.Board == intent.BoardWorkOrders {
				return fmt.Sprintf("Active work orders: %s", count(view.WorkOrders.ActiveCount)), true
			}
			return fmt.Sprintf("Active deals: %s", count(view.WorkOrders.ActiveCount)), true
		}
		return "", false

	case m == intent.MetricColumns:
		if view.Kind == ViewColumnList {
			return columnsLine(view), true
		}
		return "", false
	}

	// Sector-scoped view with an unrecognized metric name still gets the
	// sector line rather than nothing.
	if in.Sector != "" && view.Kind == ViewSectorBucket {
		return sectorLine(in.Sector, view.Bucket.Count, "pipeline", view.Bucket.Pipeline), true
	}
	return "", false
}

func isDealCountMetric(m string) bool {
	switch m {
	case intent.MetricDealCount, "deals", "count", "number_of_deals":
		return true
	}
	return false
}

func isPipelineMetric(m string) bool {
	switch m {
	case "pipeline", intent.MetricPipelineValue, "total_pipeline":
		return true
	}
	return false
}

func isRevenueMetric(m string) bool {
	switch m {
	case intent.MetricRevenue, "total_revenue":
		return true
	}
	return false
}

func sectorLine(sector string, n int, label string, v float64) string {
	return fmt.Sprintf("Sector '%s': %s deals; %s %s", sector, count(n), label, money(v))
}

func columnsLine(view MetricsView) string {
	names := make([]string, 0, len(view.Columns))
	for _, c := range view.Columns {
		name := c.Title
		if name == "" {
			name = c.ID
		}
		names = append(names, name)
	}
	shown := names
	suffix := ""
	if len(names) > 10 {
		shown = names[:10]
		suffix = "..."
	}
	return fmt.Sprintf("Board has %d columns: %s%s", len(names), strings.Join(shown, ", "), suffix)
}

// money formats a currency amount with thousands separators and no decimals.
func money(v float64) string {
	return "$" + humanize.Comma(int64(math.Round(v)))
}

// count formats an integer count with thousands separators.
func count(n int) string {
	return humanize.Comma(int64(n))
}
