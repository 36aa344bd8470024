package tableio

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first worksheet; the first non-empty row is the header.
func readXLSX(r io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, errors.New("workbook has no sheets")
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for _, row := range all {
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, nil, errors.New("sheet " + sheet + " is empty")
	}
	return rows[0], rows[1:], nil
}
