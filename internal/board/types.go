package board

// RawRecord is one item from a board, exactly as the board service returns
// it. Column values are an ordered bag of opaque id/value pairs; nothing in
// this package interprets them.
type RawRecord struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ColumnValues []ColumnValue `json:"column_values"`
}

// ColumnValue is a single cell. Text is the display rendering, Value the
// raw service-side encoding; consumers prefer Text when both are present.
type ColumnValue struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Value string `json:"value"`
}

// ColumnMeta describes one column of a board's schema.
type ColumnMeta struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
