// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"fjacquet/invoice-summaries/internal/batch"
	"fjacquet/invoice-summaries/internal/container"
	"fjacquet/invoice-summaries/internal/fileutils"
	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/report"
	"fjacquet/invoice-summaries/internal/tableio"
)

const (
	// StdoutName selects standard output as the export target.
	StdoutName = "-"
	// BatchSuffix replaces the extension of each file written by SummarizeDirectory.
	BatchSuffix = "_with_ai_summaries.csv"
)

var (
	// ErrNoInput is returned when no input file was given.
	ErrNoInput = errors.New("input file is required (--input)")
	// ErrNoDirectories is returned when batch mode lacks a directory.
	ErrNoDirectories = errors.New("input and output directories must be specified")
)

// SummarizeFile loads inputFile, generates one summary per row and writes
// the result to outputFile, or to stdout when outputFile is "-". An empty
// outputFile uses the configured export file name.
func SummarizeFile(ctx context.Context, c *container.Container, inputFile, outputFile string, stdout io.Writer) (batch.Stats, error) {
	if inputFile == "" {
		return batch.Stats{}, ErrNoInput
	}
	if outputFile == "" {
		outputFile = c.GetConfig().Export.FileName
	}
	log := c.GetLogger().WithFields(
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile))

	table, err := c.GetCodec().LoadFile(inputFile)
	if err != nil {
		return batch.Stats{}, err
	}

	applier, err := c.GetApplier(ctx)
	if err != nil {
		return batch.Stats{}, err
	}

	log.Info("Generating summaries", logging.F(logging.FieldCount, table.Len()))
	result, stats := applier.Apply(ctx, table)

	if outputFile == StdoutName {
		err = c.GetCodec().Export(stdout, result)
	} else {
		err = c.GetCodec().ExportFile(outputFile, result)
	}
	if err != nil {
		return stats, fmt.Errorf("failed to write summaries: %w", err)
	}

	log.Info("Summaries written",
		logging.F(logging.FieldCount, stats.Rows),
		logging.F(logging.FieldFailed, stats.Failed))
	return stats, nil
}

// InspectFile loads inputFile and prints the table followed by its overview.
func InspectFile(c *container.Container, inputFile string, w io.Writer) error {
	if inputFile == "" {
		return ErrNoInput
	}

	table, err := c.GetCodec().LoadFile(inputFile)
	if err != nil {
		return err
	}

	if err := report.PrintTable(w, table); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return report.Build(table).Print(w)
}

// SummarizeDirectory runs SummarizeFile's pipeline over every invoice file in
// inputDir and writes <name>_with_ai_summaries.csv files to outputDir. Files
// that fail to load are logged and skipped. It returns the number of files
// written.
func SummarizeDirectory(ctx context.Context, c *container.Container, inputDir, outputDir string) (int, error) {
	if inputDir == "" || outputDir == "" {
		return 0, ErrNoDirectories
	}
	log := c.GetLogger().WithFields(
		logging.F(logging.FieldInputFile, inputDir),
		logging.F(logging.FieldOutputFile, outputDir))

	files, err := fileutils.ListFilesWithExtensions(inputDir, tableio.SupportedExtensions...)
	if err != nil {
		return 0, fmt.Errorf("failed to read input directory: %w", err)
	}
	if len(files) == 0 {
		log.Warn("No supported files found in input directory")
		return 0, nil
	}
	if err := fileutils.EnsureDirectoryExists(outputDir); err != nil {
		return 0, err
	}

	applier, err := c.GetApplier(ctx)
	if err != nil {
		return 0, err
	}

	log.Info("Found files for processing", logging.F(logging.FieldCount, len(files)))
	written := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		fileLog := log.WithField(logging.FieldFile, file)

		table, err := c.GetCodec().LoadFile(file)
		if err != nil {
			fileLog.WithError(err).Warn("Skipping file")
			continue
		}

		result, stats := applier.Apply(ctx, table)
		outputPath := filepath.Join(outputDir, fileutils.DerivedFileName(file, BatchSuffix))
		if err := c.GetCodec().ExportFile(outputPath, result); err != nil {
			fileLog.WithError(err).Error("Failed to write summaries")
			continue
		}

		fileLog.Info("Created summary file",
			logging.F(logging.FieldOutputFile, outputPath),
			logging.F(logging.FieldCount, stats.Rows),
			logging.F(logging.FieldFailed, stats.Failed))
		written++
	}
	return written, nil
}
