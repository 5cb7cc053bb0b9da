package normalize

import (
	"testing"
	"time"

	"github.com/hyperengineering/boardsight/internal/board"
)

func dealColumns() []board.ColumnMeta {
	return []board.ColumnMeta{
		{ID: "name", Title: "Name"},
		{ID: "numbers", Title: "Deal Amount"},
		{ID: "text1", Title: "Sector"},
		{ID: "date4", Title: "Close Date"},
		{ID: "status", Title: "Stage"},
	}
}

func TestDeals_FullRecord(t *testing.T) {
	records := []board.RawRecord{
		{
			ID:   "1",
			Name: "Acme expansion",
			ColumnValues: []board.ColumnValue{
				{ID: "numbers", Text: "$120,000"},
				{ID: "text1", Text: " Energy "},
				{ID: "date4", Text: "2026-03-15"},
				{ID: "status", Text: "Negotiation"},
			},
		},
	}

	deals := Deals(records, dealColumns())
	if len(deals) != 1 {
		t.Fatalf("len(deals) = %d, want 1", len(deals))
	}
	d := deals[0]
	if d.Name != "Acme expansion" {
		t.Errorf("Name = %q", d.Name)
	}
	if d.Amount != 120000 {
		t.Errorf("Amount = %v, want 120000", d.Amount)
	}
	if d.Sector != "energy" {
		t.Errorf("Sector = %q, want lowercased trimmed %q", d.Sector, "energy")
	}
	if want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC); !d.CloseDate.Equal(want) {
		t.Errorf("CloseDate = %v, want %v", d.CloseDate, want)
	}
	if d.Stage != "Negotiation" {
		t.Errorf("Stage = %q", d.Stage)
	}
}

func TestDeals_NoSectorColumnMeansUnknown(t *testing.T) {
	// Even when other columns could plausibly hold a sector, a missing
	// sector-titled column must normalize to "unknown".
	columns := []board.ColumnMeta{
		{ID: "numbers", Title: "Amount"},
		{ID: "text1", Title: "Notes"},
	}
	records := []board.RawRecord{
		{ID: "1", Name: "Deal", ColumnValues: []board.ColumnValue{
			{ID: "numbers", Text: "50"},
			{ID: "text1", Text: "energy"},
		}},
	}

	deals := Deals(records, columns)
	if deals[0].Sector != "unknown" {
		t.Errorf("Sector = %q, want %q", deals[0].Sector, "unknown")
	}
}

func TestDeals_EmptySectorValueMeansUnknown(t *testing.T) {
	records := []board.RawRecord{
		{ID: "1", Name: "Deal", ColumnValues: []board.ColumnValue{
			{ID: "text1", Text: "   "},
		}},
	}
	deals := Deals(records, dealColumns())
	if deals[0].Sector != "unknown" {
		t.Errorf("Sector = %q, want %q", deals[0].Sector, "unknown")
	}
}

func TestDeals_EmptyInput(t *testing.T) {
	deals := Deals(nil, dealColumns())
	if deals == nil {
		t.Fatal("Deals(nil) = nil, want empty slice")
	}
	if len(deals) != 0 {
		t.Errorf("len = %d, want 0", len(deals))
	}
}

func TestDeals_NoColumnMeta(t *testing.T) {
	records := []board.RawRecord{
		{ID: "1", Name: "Deal", ColumnValues: []board.ColumnValue{
			{ID: "numbers", Text: "100"},
		}},
	}
	deals := Deals(records, nil)
	if len(deals) != 1 {
		t.Fatalf("len = %d, want 1", len(deals))
	}
	if deals[0].Amount != 0 {
		t.Errorf("Amount = %v, want 0 (no amount role resolved)", deals[0].Amount)
	}
	if deals[0].Sector != "unknown" {
		t.Errorf("Sector = %q, want unknown", deals[0].Sector)
	}
}

func TestDeals_MalformedRecordDropped(t *testing.T) {
	records := []board.RawRecord{
		{ID: "1", Name: "Good", ColumnValues: []board.ColumnValue{{ID: "numbers", Text: "10"}}},
		{ID: "2"}, // no name, no columns
		{ID: "3", Name: "Also good"},
	}
	deals := Deals(records, dealColumns())
	if len(deals) != 2 {
		t.Fatalf("len = %d, want 2 (malformed dropped, batch continues)", len(deals))
	}
	if deals[0].Name != "Good" || deals[1].Name != "Also good" {
		t.Errorf("output order broken: %q, %q", deals[0].Name, deals[1].Name)
	}
}

func TestDeals_PrefersDisplayText(t *testing.T) {
	records := []board.RawRecord{
		{ID: "1", Name: "Deal", ColumnValues: []board.ColumnValue{
			{ID: "numbers", Text: "2,500", Value: "{\"raw\":9}"},
		}},
	}
	deals := Deals(records, dealColumns())
	if deals[0].Amount != 2500 {
		t.Errorf("Amount = %v, want 2500 from display text", deals[0].Amount)
	}
}

func TestDeals_FirstMatchingColumnWins(t *testing.T) {
	columns := []board.ColumnMeta{
		{ID: "a", Title: "Contract Value"},
		{ID: "b", Title: "Amount Invoiced"},
	}
	records := []board.RawRecord{
		{ID: "1", Name: "Deal", ColumnValues: []board.ColumnValue{
			{ID: "a", Text: "100"},
			{ID: "b", Text: "999"},
		}},
	}
	deals := Deals(records, columns)
	if deals[0].Amount != 100 {
		t.Errorf("Amount = %v, want 100 (first column in order wins)", deals[0].Amount)
	}
}

func TestWorkOrders_FullRecord(t *testing.T) {
	columns := []board.ColumnMeta{
		{ID: "rev", Title: "Monthly Revenue"},
		{ID: "st", Title: "Status"},
		{ID: "d1", Title: "Start Date"},
		{ID: "d2", Title: "End Date"},
	}
	records := []board.RawRecord{
		{ID: "1", Name: "Turbine maintenance", ColumnValues: []board.ColumnValue{
			{ID: "rev", Text: "€8,250.50"},
			{ID: "st", Text: " In Progress "},
			{ID: "d1", Text: "2026-01-01"},
			{ID: "d2", Text: "2026-06-30T00:00:00Z"},
		}},
	}

	orders := WorkOrders(records, columns)
	if len(orders) != 1 {
		t.Fatalf("len = %d, want 1", len(orders))
	}
	wo := orders[0]
	if wo.Revenue != 8250.50 {
		t.Errorf("Revenue = %v, want 8250.50", wo.Revenue)
	}
	if wo.Status != "in progress" {
		t.Errorf("Status = %q, want lowercased trimmed", wo.Status)
	}
	if wo.EndDate.IsZero() {
		t.Error("EndDate is zero, want parsed date with T-suffix stripped")
	}
}

func TestWorkOrders_EmptyInput(t *testing.T) {
	orders := WorkOrders([]board.RawRecord{}, nil)
	if orders == nil || len(orders) != 0 {
		t.Errorf("WorkOrders(empty) = %v, want empty slice", orders)
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$120,000", 120000},
		{"1,234.56", 1234.56},
		{"€99", 99},
		{"£1,000", 1000},
		{" 42 ", 42},
		{"", 0},
		{"n/a", 0},
		{"12 500", 12500},
	}
	for _, tt := range tests {
		if got := ParseMoney(tt.in); got != tt.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	if got := ParseDate("2026-09-01"); got.IsZero() {
		t.Error("ParseDate(valid) is zero")
	}
	if got := ParseDate("2026-09-01T12:30:00Z"); got.Day() != 1 {
		t.Errorf("ParseDate(timestamp) = %v", got)
	}
	if got := ParseDate("soon"); !got.IsZero() {
		t.Errorf("ParseDate(garbage) = %v, want zero", got)
	}
	if got := ParseDate(""); !got.IsZero() {
		t.Errorf("ParseDate(empty) = %v, want zero", got)
	}
}
