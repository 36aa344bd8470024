package models

import (
	"fmt"
	"strings"
)

// Table is an ordered set of rows sharing one header. Every row has exactly
// len(Header) cells.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable builds a Table, padding short rows with empty cells. A row longer
// than the header is an error.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("table header is empty")
	}
	t := &Table{
		Header: append([]string(nil), header...),
		Rows:   make([][]string, 0, len(rows)),
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
		cells := make([]string, len(header))
		copy(cells, row)
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex finds name in the header. An exact match wins; otherwise the
// first header equal to name ignoring case and surrounding whitespace is
// used. Returns -1 when the column is absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// MissingColumns returns the names from required that the header lacks.
func (t *Table) MissingColumns(required ...string) []string {
	var missing []string
	for _, name := range required {
		if t.ColumnIndex(name) < 0 {
			missing = append(missing, name)
		}
	}
	return missing
}

// Records projects every row onto Vendor, Amount and Date. Absent columns
// project to empty strings.
func (t *Table) Records() []Record {
	vi, ai, di := t.ColumnIndex(ColumnVendor), t.ColumnIndex(ColumnAmount), t.ColumnIndex(ColumnDate)
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		records[i] = Record{
			Index:  i,
			Vendor: cell(row, vi),
			Amount: cell(row, ai),
			Date:   cell(row, di),
		}
	}
	return records
}

// Column returns a copy of the values of the named column, or nil when the
// column is absent.
func (t *Table) Column(name string) []string {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[idx]
	}
	return values
}

// WithColumn returns a copy of the table with values stored under name. An
// existing column of that name is overwritten in place; otherwise the column
// is appended. The receiver is not modified.
func (t *Table) WithColumn(name string, values []string) (*Table, error) {
	if len(values) != len(t.Rows) {
		return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}

	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}

	header := append([]string(nil), t.Header...)
	if idx < 0 {
		idx = len(header)
		header = append(header, name)
	}

	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([]string, len(header))
		copy(cells, row)
		cells[idx] = values[i]
		rows[i] = cells
	}
	return &Table{Header: header, Rows: rows}, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
