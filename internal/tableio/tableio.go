// Package tableio loads invoice tables from uploaded CSV or XLSX files and
// exports augmented tables as CSV.
package tableio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/models"
	"fjacquet/invoice-summaries/internal/parsererror"
)

const (
	// ContentTypeCSV is the MIME type of exported tables.
	ContentTypeCSV = "text/csv"

	// DefaultFileName is the name offered for the downloaded table.
	DefaultFileName = "invoice_with_ai_summaries.csv"

	// DefaultMaxRows caps the rows accepted from one upload.
	DefaultMaxRows = 10000

	extCSV  = ".csv"
	extXLSX = ".xlsx"
)

// SupportedExtensions lists the file extensions Load accepts.
var SupportedExtensions = []string{extCSV, extXLSX}

// Codec reads and writes invoice tables.
type Codec struct {
	logger    logging.Logger
	delimiter rune
	maxRows   int
}

// NewCodec creates a Codec. A zero delimiter means comma and maxRows <= 0
// means DefaultMaxRows.
func NewCodec(logger logging.Logger, delimiter rune, maxRows int) *Codec {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	return &Codec{logger: logger, delimiter: delimiter, maxRows: maxRows}
}

// Delimiter returns the field separator used for CSV input and output.
func (c *Codec) Delimiter() rune {
	return c.delimiter
}

// Load reads a table from r, choosing the decoder from the extension of
// name. The table must carry the Vendor, Amount and Date columns and at
// least one data row. Nothing is returned on error.
func (c *Codec) Load(name string, r io.Reader) (*models.Table, error) {
	ext := strings.ToLower(filepath.Ext(name))
	log := c.logger.WithFields(
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldFormat, strings.TrimPrefix(ext, ".")),
	)

	var (
		header []string
		rows   [][]string
		err    error
	)
	switch ext {
	case extCSV:
		header, rows, err = readCSV(r, c.delimiter)
		if err != nil {
			err = &parsererror.ParseError{FileName: name, Format: "CSV", Err: err}
		}
	case extXLSX:
		header, rows, err = readXLSX(r)
		if err != nil {
			err = &parsererror.ParseError{FileName: name, Format: "XLSX", Err: err}
		}
	default:
		err = &parsererror.InvalidFormatError{FileName: name, ExpectedFormat: strings.Join(SupportedExtensions, " or ")}
	}
	if err != nil {
		log.WithError(err).Warn("Failed to load invoice file")
		return nil, err
	}

	table, err := c.validate(name, header, rows)
	if err != nil {
		log.WithError(err).Warn("Invoice file rejected")
		return nil, err
	}

	log.Info("Loaded invoice table", logging.F(logging.FieldCount, table.Len()))
	return table, nil
}

// LoadFile opens path and loads it with Load.
func (c *Codec) LoadFile(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening input file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close input file")
		}
	}()
	return c.Load(filepath.Base(path), f)
}

func (c *Codec) validate(name string, header []string, rows [][]string) (*models.Table, error) {
	if len(rows) == 0 {
		return nil, &parsererror.ValidationError{FileName: name, Reason: "no data rows"}
	}
	if len(rows) > c.maxRows {
		return nil, &parsererror.ValidationError{
			FileName: name,
			Reason:   fmt.Sprintf("too many rows (%d > %d)", len(rows), c.maxRows),
		}
	}

	table, err := models.NewTable(header, rows)
	if err != nil {
		return nil, &parsererror.ValidationError{FileName: name, Reason: err.Error()}
	}
	if missing := table.MissingColumns(models.RequiredColumns...); len(missing) > 0 {
		return nil, &parsererror.MissingColumnError{FileName: name, Columns: missing}
	}
	return table, nil
}

// Export writes table to w as CSV: header row first, no index column.
func (c *Codec) Export(w io.Writer, table *models.Table) error {
	return writeCSV(w, table, c.delimiter)
}

// ExportBytes returns the CSV encoding of table.
func (c *Codec) ExportBytes(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Export(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFile writes table to path, creating parent directories as needed.
func (c *Codec) ExportFile(path string, table *models.Table) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	if err := c.Export(f, table); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("error closing CSV file: %w", err)
	}

	c.logger.Info("Exported invoice table",
		logging.F(logging.FieldOutputFile, path),
		logging.F(logging.FieldCount, table.Len()))
	return nil
}
