package tableio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"fjacquet/invoice-summaries/internal/models"

	"github.com/gocarina/gocsv"
	"golang.org/x/net/html/charset"
)

const (
	utf8BOM = "\ufeff"
	// legacyCharset decodes CSV exports that are not valid UTF-8
	legacyCharset = "windows-1252"
)

func readCSV(r io.Reader, delimiter rune) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}

	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src, err = charset.NewReaderLabel(legacyCharset, src)
		if err != nil {
			return nil, nil, err
		}
	}

	reader := csv.NewReader(src)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, errors.New("file is empty")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return header, records[1:], nil
}

func writeCSV(w io.Writer, table *models.Table, delimiter rune) error {
	if table == nil {
		return errors.New("cannot export nil table")
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	writer := gocsv.NewSafeCSVWriter(csvWriter)

	if err := writer.Write(table.Header); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}
	for i, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
