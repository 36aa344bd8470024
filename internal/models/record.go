// Package models defines the invoice table the rest of the application
// loads, augments with summaries, and exports.
package models

// Column names the application relies on.
const (
	ColumnVendor  = "Vendor"
	ColumnAmount  = "Amount"
	ColumnDate    = "Date"
	ColumnSummary = "AI_Summary"
)

// RequiredColumns lists the columns every invoice table must carry.
var RequiredColumns = []string{ColumnVendor, ColumnAmount, ColumnDate}

// Record is the view of one table row used to build a prompt. Values are
// the raw cell text and are never reformatted.
type Record struct {
	Index  int
	Vendor string
	Amount string
	Date   string
}
