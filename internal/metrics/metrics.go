// Package metrics aggregates normalized rows into the summary statistics
// the assistant answers from. All functions are pure: computing twice over
// the same input yields identical results.
package metrics

import (
	"sort"
	"time"

	"github.com/hyperengineering/boardsight/internal/normalize"
)

// SectorStats is one sector's slice of the deals breakdown.
type SectorStats struct {
	Pipeline float64 `json:"pipeline"`
	Count    int     `json:"count"`
}

// StatusStats is one status bucket of the work orders breakdown.
type StatusStats struct {
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// DealsMetrics summarizes the deals board. SectorOrder records first-seen
// order of sectors so rankings can break ties stably; it is not part of the
// serialized shape.
type DealsMetrics struct {
	TotalPipeline float64                `json:"total_pipeline"`
	DealCount     int                    `json:"deal_count"`
	BySector      map[string]SectorStats `json:"by_sector"`
	SectorOrder   []string               `json:"-"`
}

// WorkOrdersMetrics summarizes the work orders board. ActiveCount counts
// rows whose status is exactly "active" or "in progress".
type WorkOrdersMetrics struct {
	TotalRevenue float64                `json:"total_revenue"`
	ActiveCount  int                    `json:"active_count"`
	ByStatus     map[string]StatusStats `json:"by_status"`
}

// QuarterlyDeals is the time-windowed pipeline variant.
type QuarterlyDeals struct {
	Pipeline float64 `json:"pipeline"`
	Count    int     `json:"count"`
}

// SectorRank is one entry of the leadership top-sectors ranking.
type SectorRank struct {
	Sector   string  `json:"sector"`
	Pipeline float64 `json:"pipeline"`
	Count    int     `json:"count"`
}

// Leadership is the executive digest of both boards.
type Leadership struct {
	TotalPipeline    float64      `json:"total_pipeline"`
	QuarterPipeline  float64      `json:"quarter_pipeline"`
	TotalRevenue     float64      `json:"total_revenue"`
	ActiveDeals      int          `json:"active_deals"`
	ActiveWorkOrders int          `json:"active_work_orders"`
	TopSectors       []SectorRank `json:"top_sectors"`
}

// ComputeDeals aggregates deals into totals and a per-sector breakdown.
// Empty input returns a zero-valued result with an empty breakdown.
func ComputeDeals(deals []normalize.Deal) DealsMetrics {
	m := DealsMetrics{
		BySector:    make(map[string]SectorStats),
		SectorOrder: []string{},
	}
	for _, d := range deals {
		sector := d.Sector
		if sector == "" {
			sector = "unknown"
		}
		if _, seen := m.BySector[sector]; !seen {
			m.SectorOrder = append(m.SectorOrder, sector)
		}
		s := m.BySector[sector]
		s.Pipeline += d.Amount
		s.Count++
		m.BySector[sector] = s

		m.TotalPipeline += d.Amount
		m.DealCount++
	}
	return m
}

// ComputeWorkOrders aggregates work orders into totals and a per-status
// breakdown. Empty input returns a zero-valued result.
func ComputeWorkOrders(orders []normalize.WorkOrder) WorkOrdersMetrics {
	m := WorkOrdersMetrics{
		ByStatus: make(map[string]StatusStats),
	}
	for _, wo := range orders {
		status := wo.Status
		if status == "" {
			status = "unknown"
		}
		s := m.ByStatus[status]
		s.Revenue += wo.Revenue
		s.Count++
		m.ByStatus[status] = s

		m.TotalRevenue += wo.Revenue
		if status == "active" || status == "in progress" {
			m.ActiveCount++
		}
	}
	return m
}

// QuarterRange returns the inclusive calendar-quarter boundaries containing
// now, in now's location.
func QuarterRange(now time.Time) (start, end time.Time) {
	year := now.Year()
	q := (int(now.Month())-1)/3 + 1
	loc := now.Location()
	switch q {
	case 1:
		return time.Date(year, 1, 1, 0, 0, 0, 0, loc), time.Date(year, 3, 31, 0, 0, 0, 0, loc)
	case 2:
		return time.Date(year, 4, 1, 0, 0, 0, 0, loc), time.Date(year, 6, 30, 0, 0, 0, 0, loc)
	case 3:
		return time.Date(year, 7, 1, 0, 0, 0, 0, loc), time.Date(year, 9, 30, 0, 0, 0, 0, loc)
	default:
		return time.Date(year, 10, 1, 0, 0, 0, 0, loc), time.Date(year, 12, 31, 0, 0, 0, 0, loc)
	}
}

// ComputeQuarterlyDeals sums deals whose close date falls inside the current
// calendar quarter, boundaries inclusive. Deals without a close date are
// excluded.
func ComputeQuarterlyDeals(deals []normalize.Deal, now time.Time) QuarterlyDeals {
	start, end := QuarterRange(now)
	var q QuarterlyDeals
	for _, d := range deals {
		if d.CloseDate.IsZero() {
			continue
		}
		if d.CloseDate.Before(start) || d.CloseDate.After(end) {
			continue
		}
		q.Pipeline += d.Amount
		q.Count++
	}
	return q
}

// ComputeLeadership composes the leadership digest: top-line totals plus the
// top 3 sectors by pipeline. The ranking sort is stable, so equal-pipeline
// sectors keep their first-seen order.
func ComputeLeadership(deals []normalize.Deal, orders []normalize.WorkOrder, now time.Time) Leadership {
	dm := ComputeDeals(deals)
	wm := ComputeWorkOrders(orders)
	qm := ComputeQuarterlyDeals(deals, now)

	ranks := make([]SectorRank, 0, len(dm.SectorOrder))
	for _, sector := range dm.SectorOrder {
		s := dm.BySector[sector]
		ranks = append(ranks, SectorRank{Sector: sector, Pipeline: s.Pipeline, Count: s.Count})
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].Pipeline > ranks[j].Pipeline
	})
	if len(ranks) > 3 {
		ranks = ranks[:3]
	}

	return Leadership{
		TotalPipeline:    dm.TotalPipeline,
		QuarterPipeline:  qm.Pipeline,
		TotalRevenue:     wm.TotalRevenue,
		ActiveDeals:      dm.DealCount,
		ActiveWorkOrders: wm.ActiveCount,
		TopSectors:       ranks,
	}
}
