package answer

import (
	"github.com/hyperengineering/boardsight/internal/board"
	"github.com/hyperengineering/boardsight/internal/metrics"
)

// ViewKind discriminates the MetricsView union.
type ViewKind int

const (
	// ViewDeals carries aggregate deals metrics.
	ViewDeals ViewKind = iota
	// ViewWorkOrders carries aggregate work orders metrics.
	ViewWorkOrders
	// ViewSectorBucket carries a single sector's pipeline and count.
	ViewSectorBucket
	// ViewScalar carries one bare number.
	ViewScalar
	// ViewColumnList carries a board's column schema.
	ViewColumnList
)

// MetricsView is a tagged union naming the shape of the metrics a caller
// hands to the synthesizer. The caller states the shape explicitly; the
// synthesizer never guesses from ambient structure.
type MetricsView struct {
	Kind       ViewKind
	Deals      metrics.DealsMetrics
	WorkOrders metrics.WorkOrdersMetrics
	Sector     string
	Bucket     metrics.SectorStats
	Scalar     float64
	Columns    []board.ColumnMeta
}

// DealsView wraps aggregate deals metrics.
func DealsView(m metrics.DealsMetrics) MetricsView {
	return MetricsView{Kind: ViewDeals, Deals: m}
}

// WorkOrdersView wraps aggregate work orders metrics.
func WorkOrdersView(m metrics.WorkOrdersMetrics) MetricsView {
	return MetricsView{Kind: ViewWorkOrders, WorkOrders: m}
}

// SectorBucketView wraps one sector's slice of the deals breakdown.
func SectorBucketView(sector string, s metrics.SectorStats) MetricsView {
	return MetricsView{Kind: ViewSectorBucket, Sector: sector, Bucket: s}
}

// ScalarView wraps a bare number.
func ScalarView(v float64) MetricsView {
	return MetricsView{Kind: ViewScalar, Scalar: v}
}

// ColumnListView wraps a board's column schema.
func ColumnListView(cols []board.ColumnMeta) MetricsView {
	return MetricsView{Kind: ViewColumnList, Columns: cols}
}

// payload returns the JSON-serializable data behind the view, used when
// handing metrics to the generative backend.
func (v MetricsView) payload() any {
	switch v.Kind {
	case ViewDeals:
		return v.Deals
	case ViewWorkOrders:
		return v.WorkOrders
	case ViewSectorBucket:
		return map[string]any{"sector": v.Sector, "pipeline": v.Bucket.Pipeline, "count": v.Bucket.Count}
	case ViewScalar:
		return v.Scalar
	case ViewColumnList:
		return v.Columns
	default:
		return nil
	}
}
