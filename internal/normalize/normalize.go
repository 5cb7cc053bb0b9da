// Package normalize turns heterogeneous raw board records into fixed-shape
// rows. Column semantics are resolved by keyword-matching column titles, so
// boards can rename or reorder columns without code changes.
package normalize

import (
	"log/slog"
	"strings"
	"time"

	"github.com/hyperengineering/boardsight/internal/board"
)

// Deal is a normalized row from the deals board.
type Deal struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Sector    string    `json:"sector"`
	CloseDate time.Time `json:"close_date"`
	Stage     string    `json:"stage"`
}

// WorkOrder is a normalized row from the work orders board.
type WorkOrder struct {
	Name      string    `json:"name"`
	Revenue   float64   `json:"revenue"`
	Status    string    `json:"status"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Keyword sets for column-role resolution. The first column whose lowercased
// title contains any keyword wins; matching walks the column slice in order
// so the result is deterministic.
var (
	amountKeywords  = []string{"amount", "value"}
	sectorKeywords  = []string{"sector", "industry", "vertical", "segment"}
	closeKeywords   = []string{"close"}
	stageKeywords   = []string{"stage", "status"}
	revenueKeywords = []string{"revenue"}
	statusKeywords  = []string{"status", "state"}
	startKeywords   = []string{"start"}
	endKeywords     = []string{"end"}
)

// findColumn returns the id of the first column whose title contains one of
// the keywords, or "" when no column plays that role.
func findColumn(columns []board.ColumnMeta, keywords []string) string {
	for _, c := range columns {
		title := strings.ToLower(c.Title)
		for _, kw := range keywords {
			if strings.Contains(title, kw) {
				return c.ID
			}
		}
	}
	return ""
}

// columnText flattens a record's column values into an id → text map,
// preferring the display text over the raw value.
func columnText(rec board.RawRecord) map[string]string {
	cols := make(map[string]string, len(rec.ColumnValues))
	for _, cv := range rec.ColumnValues {
		if cv.ID == "" {
			continue
		}
		if cv.Text != "" {
			cols[cv.ID] = cv.Text
		} else {
			cols[cv.ID] = cv.Value
		}
	}
	return cols
}

// Deals normalizes raw deal records. Records that carry no usable data are
// dropped and logged; one bad record never aborts the batch. Output order
// matches input order and empty input yields an empty slice.
func Deals(records []board.RawRecord, columns []board.ColumnMeta) []Deal {
	deals := make([]Deal, 0, len(records))
	if len(records) == 0 {
		return deals
	}

	amountCol := findColumn(columns, amountKeywords)
	// Sector is mapped only when a column title names it explicitly. No
	// sector column means every row is "unknown", never guessed from
	// other columns.
	sectorCol := findColumn(columns, sectorKeywords)
	closeCol := findColumn(columns, closeKeywords)
	stageCol := findColumn(columns, stageKeywords)

	for _, rec := range records {
		if rec.Name == "" && len(rec.ColumnValues) == 0 {
			slog.Warn("dropping malformed deal record", "id", rec.ID)
			continue
		}
		cols := columnText(rec)

		sector := "unknown"
		if sectorCol != "" {
			if s := strings.ToLower(strings.TrimSpace(cols[sectorCol])); s != "" {
				sector = s
			}
		}

		deal := Deal{
			Name:   rec.Name,
			Sector: sector,
		}
		if amountCol != "" {
			deal.Amount = ParseMoney(cols[amountCol])
		}
		if closeCol != "" {
			deal.CloseDate = ParseDate(cols[closeCol])
		}
		if stageCol != "" {
			deal.Stage = strings.TrimSpace(cols[stageCol])
		}
		deals = append(deals, deal)
	}
	return deals
}

// WorkOrders normalizes raw work order records with the same batch
// semantics as Deals.
func WorkOrders(records []board.RawRecord, columns []board.ColumnMeta) []WorkOrder {
	orders := make([]WorkOrder, 0, len(records))
	if len(records) == 0 {
		return orders
	}

	revenueCol := findColumn(columns, revenueKeywords)
	statusCol := findColumn(columns, statusKeywords)
	startCol := findColumn(columns, startKeywords)
	endCol := findColumn(columns, endKeywords)

	for _, rec := range records {
		if rec.Name == "" && len(rec.ColumnValues) == 0 {
			slog.Warn("dropping malformed work order record", "id", rec.ID)
			continue
		}
		cols := columnText(rec)

		wo := WorkOrder{Name: rec.Name}
		if revenueCol != "" {
			wo.Revenue = ParseMoney(cols[revenueCol])
		}
		if statusCol != "" {
			wo.Status = strings.ToLower(strings.TrimSpace(cols[statusCol]))
		}
		if startCol != "" {
			wo.StartDate = ParseDate(cols[startCol])
		}
		if endCol != "" {
			wo.EndDate = ParseDate(cols[endCol])
		}
		orders = append(orders, wo)
	}
	return orders
}
