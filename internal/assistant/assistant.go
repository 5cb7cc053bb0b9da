// Package assistant orchestrates a question end to end: fetch raw records,
// normalize, compute metrics, resolve intent, synthesize an answer. It owns
// the caller-level policies the leaf packages stay ignorant of: the
// leadership shortcut, sector filtering, and the sector-not-found reply.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hyperengineering/boardsight/internal/answer"
	"github.com/hyperengineering/boardsight/internal/board"
	"github.com/hyperengineering/boardsight/internal/intent"
	"github.com/hyperengineering/boardsight/internal/metrics"
	"github.com/hyperengineering/boardsight/internal/normalize"
)

// Agent is an optional first-attempt answerer tried before the
// deterministic pipeline.
type Agent interface {
	Run(ctx context.Context, question string) (string, error)
}

// Service answers free-text questions about the tracked boards.
type Service struct {
	boards            board.Client
	dealsBoardID      string
	workOrdersBoardID string
	resolver          *intent.Resolver
	synth             *answer.Synthesizer
	agent             Agent
	now               func() time.Time
}

// New creates a Service. The board client is typically cache-wrapped.
func New(boards board.Client, dealsBoardID, workOrdersBoardID string, r *intent.Resolver, s *answer.Synthesizer) *Service {
	return &Service{
		boards:            boards,
		dealsBoardID:      dealsBoardID,
		workOrdersBoardID: workOrdersBoardID,
		resolver:          r,
		synth:             s,
		now:               time.Now,
	}
}

// WithAgent enables the tool-calling agent as a first attempt.
func (s *Service) WithAgent(a Agent) *Service {
	s.agent = a
	return s
}

// noFilterSentinels are sector values meaning "no filter requested".
// Matching is case and whitespace insensitive.
var noFilterSentinels = map[string]bool{
	"": true, "all": true, "none": true, "overall": true, "total": true, "any": true,
}

// Answer runs one question through the pipeline and returns plain text. It
// never returns a stack trace to the user: upstream failures degrade to an
// empty working set, unparseable questions surface their explanation.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	if s.agent != nil {
		if ans, err := s.agent.Run(ctx, question); err == nil && ans != "" {
			return ans, nil
		} else if err != nil {
			slog.Warn("agent attempt failed, using deterministic pipeline", "error", err)
		}
	}

	q := strings.ToLower(question)
	if strings.Contains(q, "summary") || strings.Contains(q, "leadership") || strings.Contains(q, "board") {
		return s.leadership(ctx), nil
	}

	in := s.resolver.Parse(ctx, question)
	if in.Err != "" {
		return in.Err, nil
	}
	if in.Metric == intent.MetricLeadership {
		return s.leadership(ctx), nil
	}
	if in.Metric == intent.MetricColumns {
		return s.columns(ctx, question, in), nil
	}

	if in.Board == intent.BoardWorkOrders {
		orders := s.workOrdersOrEmpty(ctx)
		view := answer.WorkOrdersView(metrics.ComputeWorkOrders(orders))
		return s.render(ctx, question, in, view), nil
	}

	deals := s.dealsOrEmpty(ctx)
	dm := metrics.ComputeDeals(deals)

	sector := strings.ToLower(strings.TrimSpace(in.Sector))
	if !noFilterSentinels[sector] {
		bucket, ok := dm.BySector[sector]
		if !ok {
			return sectorNotFound(sector, dm), nil
		}
		in.Sector = sector
		return s.render(ctx, question, in, answer.SectorBucketView(sector, bucket)), nil
	}

	if strings.Contains(strings.ToLower(in.Timeframe), "quarter") {
		qm := metrics.ComputeQuarterlyDeals(deals, s.now())
		bucket := metrics.SectorStats{Pipeline: qm.Pipeline, Count: qm.Count}
		return s.render(ctx, question, in, answer.SectorBucketView("", bucket)), nil
	}

	return s.render(ctx, question, in, answer.DealsView(dm)), nil
}

// render tries the deterministic answer first and falls back to the
// generative summary.
func (s *Service) render(ctx context.Context, question string, in intent.Intent, view answer.MetricsView) string {
	if ans, ok := answer.FromMetrics(in, view); ok {
		return ans
	}
	return s.synth.Summary(ctx, question, view)
}

func (s *Service) leadership(ctx context.Context) string {
	deals := s.dealsOrEmpty(ctx)
	orders := s.workOrdersOrEmpty(ctx)
	sum := metrics.ComputeLeadership(deals, orders, s.now())
	return s.synth.LeadershipDigest(ctx, sum)
}

func (s *Service) columns(ctx context.Context, question string, in intent.Intent) string {
	boardID := s.dealsBoardID
	if in.Board == intent.BoardWorkOrders {
		boardID = s.workOrdersBoardID
	}
	cols, err := s.boards.FetchColumns(ctx, boardID)
	if err != nil {
		slog.Warn("column fetch failed", "board_id", boardID, "error", err)
		cols = []board.ColumnMeta{}
	}
	return s.render(ctx, question, in, answer.ColumnListView(cols))
}

// sectorNotFound reports a missing sector along with up to 10 available
// sectors, alphabetical, "unknown" excluded. Silently returning empty
// metrics would misread "no such sector" as "zero pipeline".
func sectorNotFound(sector string, dm metrics.DealsMetrics) string {
	available := make([]string, 0, len(dm.BySector))
	for name := range dm.BySector {
		if name != "unknown" {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	if len(available) > 10 {
		available = available[:10]
	}
	if len(available) == 0 {
		return fmt.Sprintf("Sector '%s' not found. No sectors available", sector)
	}
	return fmt.Sprintf("Sector '%s' not found. Available sectors: %s", sector, strings.Join(available, ", "))
}

// Deals fetches and normalizes the deals board.
func (s *Service) Deals(ctx context.Context) ([]normalize.Deal, error) {
	records, err := s.boards.FetchItems(ctx, s.dealsBoardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.boards.FetchColumns(ctx, s.dealsBoardID)
	if err != nil {
		return nil, err
	}
	return normalize.Deals(records, cols), nil
}

// WorkOrders fetches and normalizes the work orders board.
func (s *Service) WorkOrders(ctx context.Context) ([]normalize.WorkOrder, error) {
	records, err := s.boards.FetchItems(ctx, s.workOrdersBoardID)
	if err != nil {
		return nil, err
	}
	cols, err := s.boards.FetchColumns(ctx, s.workOrdersBoardID)
	if err != nil {
		return nil, err
	}
	return normalize.WorkOrders(records, cols), nil
}

// DealsColumns returns the deals board schema.
func (s *Service) DealsColumns(ctx context.Context) ([]board.ColumnMeta, error) {
	return s.boards.FetchColumns(ctx, s.dealsBoardID)
}

// WorkOrdersColumns returns the work orders board schema.
func (s *Service) WorkOrdersColumns(ctx context.Context) ([]board.ColumnMeta, error) {
	return s.boards.FetchColumns(ctx, s.workOrdersBoardID)
}

// dealsOrEmpty degrades an upstream failure to an empty working set so one
// unreachable board never crashes a request.
func (s *Service) dealsOrEmpty(ctx context.Context) []normalize.Deal {
	deals, err := s.Deals(ctx)
	if err != nil {
		slog.Warn("deals fetch failed", "error", err)
		return []normalize.Deal{}
	}
	return deals
}

func (s *Service) workOrdersOrEmpty(ctx context.Context) []normalize.WorkOrder {
	orders, err := s.WorkOrders(ctx)
	if err != nil {
		slog.Warn("work orders fetch failed", "error", err)
		return []normalize.WorkOrder{}
	}
	return orders
}
