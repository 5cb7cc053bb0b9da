// Package agent exposes the fetch/clean/compute operations as callable
// tools to a bounded reasoning loop. It is an optional first attempt in
// front of the deterministic pipeline, never a replacement for it.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/hyperengineering/boardsight/internal/board"
	"github.com/hyperengineering/boardsight/internal/llm"
	"github.com/hyperengineering/boardsight/internal/metrics"
	"github.com/hyperengineering/boardsight/internal/normalize"
)

// DataSource provides the normalized working set the tools operate on.
type DataSource interface {
	Deals(ctx context.Context) ([]normalize.Deal, error)
	WorkOrders(ctx context.Context) ([]normalize.WorkOrder, error)
	DealsColumns(ctx context.Context) ([]board.ColumnMeta, error)
	WorkOrdersColumns(ctx context.Context) ([]board.ColumnMeta, error)
}

// Agent runs a bounded tool-calling loop over a completion backend.
type Agent struct {
	completer llm.Completer
	src       DataSource
	maxSteps  int
}

// New creates an Agent. maxSteps bounds the reasoning loop; values below 1
// are raised to the default of 4.
func New(c llm.Completer, src DataSource, maxSteps int) *Agent {
	if maxSteps < 1 {
		maxSteps = 4
	}
	return &Agent{completer: c, src: src, maxSteps: maxSteps}
}

const toolCatalog = `You can call these tools by replying with a single JSON object and nothing else:
  {"tool":"fetch_deals","args":{"sector":"<optional filter>"}}
  {"tool":"fetch_work_orders","args":{"status":"<optional filter>"}}
  {"tool":"deals_columns","args":{}}
  {"tool":"work_orders_columns","args":{}}
  {"tool":"deals_metrics","args":{}}
  {"tool":"work_orders_metrics","args":{}}
When you have enough information, reply with {"answer":"<final answer text>"} instead.`

// Run answers the question, calling tools as needed. Quick paths that need
// no reasoning (sector listing, capabilities, data snapshot) are answered
// directly. Any protocol violation or exhausted step budget returns an
// error so the caller can fall back to the deterministic pipeline.
func (a *Agent) Run(ctx context.Context, question string) (string, error) {
	q := strings.ToLower(question)

	if strings.Contains(q, "sector") && containsAny(q, "list", "available", "show", "all") {
		return a.listSectors(ctx)
	}
	if containsAny(q, "what questions", "what can you", "help", "capabilities", "what do you know") {
		return a.capabilities(), nil
	}
	if containsAny(q, "context", "show data", "data snapshot", "sample data") {
		return a.snapshot(ctx)
	}

	transcript := fmt.Sprintf("%s\n\nQuestion: %s", toolCatalog, question)
	for step := 0; step < a.maxSteps; step++ {
		text, err := a.completer.Complete(ctx, transcript)
		if err != nil {
			return "", fmt.Errorf("agent completion: %w", err)
		}

		var reply struct {
			Tool   string            `json:"tool"`
			Args   map[string]string `json:"args"`
			Answer string            `json:"answer"`
		}
		if err := json.Unmarshal([]byte(text), &reply); err != nil {
			return "", fmt.Errorf("agent reply not valid JSON: %w", err)
		}
		if reply.Answer != "" {
			return reply.Answer, nil
		}
		if reply.Tool == "" {
			return "", fmt.Errorf("agent reply named no tool and no answer")
		}

		observation, err := a.call(ctx, reply.Tool, reply.Args)
		if err != nil {
			return "", fmt.Errorf("tool %s: %w", reply.Tool, err)
		}
		slog.Debug("agent tool call", "step", step, "tool", reply.Tool)
		transcript += fmt.Sprintf("\n\nTool %s returned: %s", reply.Tool, observation)
	}
	return "", fmt.Errorf("agent exceeded %d steps without answering", a.maxSteps)
}

func (a *Agent) call(ctx context.Context, tool string, args map[string]string) (string, error) {
	switch tool {
	case "fetch_deals":
		deals, err := a.src.Deals(ctx)
		if err != nil {
			return "", err
		}
		if sector := strings.ToLower(strings.TrimSpace(args["sector"])); sector != "" && sector != "all" && sector != "none" {
			filtered := deals[:0:0]
			for _, d := range deals {
				if d.Sector == sector {
					filtered = append(filtered, d)
				}
			}
			deals = filtered
		}
		return marshalObservation(deals)
	case "fetch_work_orders":
		orders, err := a.src.WorkOrders(ctx)
		if err != nil {
			return "", err
		}
		if status := strings.ToLower(strings.TrimSpace(args["status"])); status != "" {
			filtered := orders[:0:0]
			for _, wo := range orders {
				if wo.Status == status {
					filtered = append(filtered, wo)
				}
			}
			orders = filtered
		}
		return marshalObservation(orders)
	case "deals_columns":
		cols, err := a.src.DealsColumns(ctx)
		if err != nil {
			return "", err
		}
		return marshalObservation(cols)
	case "work_orders_columns":
		cols, err := a.src.WorkOrdersColumns(ctx)
		if err != nil {
			return "", err
		}
		return marshalObservation(cols)
	case "deals_metrics":
		deals, err := a.src.Deals(ctx)
		if err != nil {
			return "", err
		}
		return marshalObservation(metrics.ComputeDeals(deals))
	case "work_orders_metrics":
		orders, err := a.src.WorkOrders(ctx)
		if err != nil {
			return "", err
		}
		return marshalObservation(metrics.ComputeWorkOrders(orders))
	default:
		return "", fmt.Errorf("unknown tool %q", tool)
	}
}

func (a *Agent) listSectors(ctx context.Context) (string, error) {
	deals, err := a.src.Deals(ctx)
	if err != nil {
		return "", err
	}
	dm := metrics.ComputeDeals(deals)
	available := make([]string, 0, len(dm.BySector))
	for name := range dm.BySector {
		if name != "" && name != "unknown" {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		return "No sectors available", nil
	}
	sort.Strings(available)
	return "Available sectors: " + strings.Join(available, ", "), nil
}

func (a *Agent) capabilities() string {
	caps := map[string]any{
		"description": "I can fetch deals and work orders, list columns, and compute metrics (pipeline, revenue, counts) for both boards.",
		"tools": []string{
			"fetch_deals", "fetch_work_orders",
			"deals_columns", "work_orders_columns",
			"deals_metrics", "work_orders_metrics",
		},
	}
	out, _ := json.MarshalIndent(caps, "", "  ")
	return string(out)
}

// snapshot returns a JSON digest of both boards: sample rows plus computed
// metrics, capped at 20 rows per board.
func (a *Agent) snapshot(ctx context.Context) (string, error) {
	deals, err := a.src.Deals(ctx)
	if err != nil {
		return "", err
	}
	orders, err := a.src.WorkOrders(ctx)
	if err != nil {
		return "", err
	}

	const limit = 20
	out, err := json.MarshalIndent(map[string]any{
		"sample_deals":        head(deals, limit),
		"sample_work_orders":  head(orders, limit),
		"deals_metrics":       metrics.ComputeDeals(deals),
		"work_orders_metrics": metrics.ComputeWorkOrders(orders),
	}, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func marshalObservation(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
