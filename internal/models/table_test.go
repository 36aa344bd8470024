package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		[]string{"Invoice", "Vendor", "Amount", "Date"},
		[][]string{
			{"INV-1", "Acme Co", "120.00", "2024-01-05"},
			{"INV-2", "Globex", "75.5"},
		},
	)
	require.NoError(t, err)
	return table
}

func TestNewTable_PadsShortRows(t *testing.T) {
	table := sampleTable(t)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"INV-2", "Globex", "75.5", ""}, table.Rows[1])
}

func TestNewTable_Errors(t *testing.T) {
	_, err := NewTable(nil, nil)
	assert.Error(t, err)

	_, err = NewTable([]string{"Vendor"}, [][]string{{"a", "b"}})
	assert.ErrorContains(t, err, "row 1 has 2 cells")
}

func TestNewTable_CopiesInput(t *testing.T) {
	header := []string{"Vendor", "Amount", "Date"}
	rows := [][]string{{"Acme", "1", "2024-01-01"}}
	table, err := NewTable(header, rows)
	require.NoError(t, err)

	header[0] = "changed"
	rows[0][0] = "changed"
	assert.Equal(t, "Vendor", table.Header[0])
	assert.Equal(t, "Acme", table.Rows[0][0])
}

func TestColumnIndex(t *testing.T) {
	table, err := NewTable([]string{" vendor ", "Vendor", "AMOUNT"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, table.ColumnIndex("Vendor"), "exact match wins")
	assert.Equal(t, 2, table.ColumnIndex("Amount"))
	assert.Equal(t, -1, table.ColumnIndex("Date"))
	assert.Equal(t, []string{"Date"}, table.MissingColumns(RequiredColumns...))
}

func TestRecords(t *testing.T) {
	records := sampleTable(t).Records()
	require.Len(t, records, 2)
	assert.Equal(t, Record{Index: 0, Vendor: "Acme Co", Amount: "120.00", Date: "2024-01-05"}, records[0])
	assert.Equal(t, Record{Index: 1, Vendor: "Globex", Amount: "75.5", Date: ""}, records[1])
}

func TestWithColumn_AppendsWithoutMutating(t *testing.T) {
	table := sampleTable(t)

	out, err := table.WithColumn(ColumnSummary, []string{"s1", "s2"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Invoice", "Vendor", "Amount", "Date", ColumnSummary}, out.Header)
	assert.Equal(t, []string{"INV-1", "Acme Co", "120.00", "2024-01-05", "s1"}, out.Rows[0])
	assert.Len(t, table.Header, 4)
	assert.Len(t, table.Rows[0], 4)
	assert.Equal(t, []string{"s1", "s2"}, out.Column(ColumnSummary))
}

func TestWithColumn_OverwritesExisting(t *testing.T) {
	table := sampleTable(t)
	first, err := table.WithColumn(ColumnSummary, []string{"old1", "old2"})
	require.NoError(t, err)

	second, err := first.WithColumn(ColumnSummary, []string{"new1", "new2"})
	require.NoError(t, err)

	assert.Equal(t, first.Header, second.Header)
	assert.Equal(t, []string{"new1", "new2"}, second.Column(ColumnSummary))
	assert.Equal(t, []string{"old1", "old2"}, first.Column(ColumnSummary))
}

func TestWithColumn_LengthMismatch(t *testing.T) {
	_, err := sampleTable(t).WithColumn(ColumnSummary, []string{"only one"})
	assert.Error(t, err)
}

func TestColumn_Absent(t *testing.T) {
	assert.Nil(t, sampleTable(t).Column("Nope"))
}
