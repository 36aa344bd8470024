// Package batch applies summary generation to every row of an invoice table.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/models"
	"fjacquet/invoice-summaries/internal/summary"
)

// Describer produces the summary text for one record. It must not fail;
// errors are expected to be folded into the returned text.
type Describer interface {
	Describe(ctx context.Context, rec models.Record) string
}

// Stats reports how a batch went. Failed counts rows whose summary is an
// error placeholder.
type Stats struct {
	Rows      int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Applier maps a Describer over the rows of a table.
type Applier struct {
	describer   Describer
	logger      logging.Logger
	workerCount int
}

// NewApplier creates an Applier. workerCount <= 1 processes rows one after
// another.
func NewApplier(describer Describer, logger logging.Logger, workerCount int) *Applier {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return &Applier{describer: describer, logger: logger, workerCount: workerCount}
}

// Apply returns a copy of table with one summary per row stored in the
// AI_Summary column, in row order. An existing summary column is
// overwritten. Apply always produces a table; once ctx is done the remaining
// rows receive a placeholder carrying the context error.
func (a *Applier) Apply(ctx context.Context, table *models.Table) (*models.Table, Stats) {
	start := time.Now()
	records := table.Records()

	var summaries []string
	if a.workerCount == 1 || len(records) < 2 {
		summaries = a.applySequential(ctx, records)
	} else {
		summaries = a.applyConcurrent(ctx, records)
	}

	stats := Stats{Rows: len(records), Duration: time.Since(start)}
	for _, s := range summaries {
		if summary.IsPlaceholder(s) {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
	}

	out, err := table.WithColumn(models.ColumnSummary, summaries)
	if err != nil {
		// one summary is produced per record
		panic(fmt.Sprintf("batch: %v", err))
	}

	a.logger.Info("Summaries applied",
		logging.F(logging.FieldCount, stats.Rows),
		logging.F(logging.FieldFailed, stats.Failed),
		logging.F(logging.FieldWorkers, a.workerCount),
		logging.F(logging.FieldDuration, stats.Duration.Milliseconds()))
	return out, stats
}

func (a *Applier) describe(ctx context.Context, rec models.Record) string {
	if err := ctx.Err(); err != nil {
		return summary.Placeholder(err)
	}
	return a.describer.Describe(ctx, rec)
}

func (a *Applier) applySequential(ctx context.Context, records []models.Record) []string {
	summaries := make([]string, len(records))
	for i, rec := range records {
		summaries[i] = a.describe(ctx, rec)
	}
	return summaries
}

// applyConcurrent fans record indexes out to a fixed pool. Each worker only
// writes the slot of the index it received.
func (a *Applier) applyConcurrent(ctx context.Context, records []models.Record) []string {
	summaries := make([]string, len(records))
	jobs := make(chan int)

	workers := a.workerCount
	if workers > len(records) {
		workers = len(records)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				summaries[i] = a.describe(ctx, records[i])
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	a.logger.Debug("Concurrent summary generation completed",
		logging.F(logging.FieldCount, len(records)),
		logging.F(logging.FieldWorkers, workers))
	return summaries
}
