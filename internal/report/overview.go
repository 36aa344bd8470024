// Package report summarizes an invoice table for display before and after
// generation.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"fjacquet/invoice-summaries/internal/currencyutils"
	"fjacquet/invoice-summaries/internal/dateutils"
	"fjacquet/invoice-summaries/internal/models"
	"fjacquet/invoice-summaries/internal/summary"

	"github.com/shopspring/decimal"
)

// Overview holds aggregate facts about a table.
type Overview struct {
	Rows             int
	Columns          []string
	Vendors          int
	TotalAmount      decimal.Decimal
	UnparsedAmounts  int
	FirstDate        time.Time
	LastDate         time.Time
	UnparsedDates    int
	HasSummaryColumn bool
	Summaries        int
	FailedSummaries  int
}

// Build computes the Overview of table.
func Build(table *models.Table) Overview {
	o := Overview{
		Rows:        table.Len(),
		Columns:     append([]string(nil), table.Header...),
		TotalAmount: decimal.Zero,
	}

	vendors := make(map[string]struct{})
	for _, rec := range table.Records() {
		if v := strings.TrimSpace(rec.Vendor); v != "" {
			vendors[strings.ToLower(v)] = struct{}{}
		}

		if amount, err := currencyutils.ParseAmount(rec.Amount); err == nil {
			o.TotalAmount = o.TotalAmount.Add(amount)
		} else {
			o.UnparsedAmounts++
		}

		if d, _, err := dateutils.ParseDate(rec.Date); err == nil {
			if o.FirstDate.IsZero() || d.Before(o.FirstDate) {
				o.FirstDate = d
			}
			if o.LastDate.IsZero() || d.After(o.LastDate) {
				o.LastDate = d
			}
		} else {
			o.UnparsedDates++
		}
	}
	o.Vendors = len(vendors)

	if values := table.Column(models.ColumnSummary); values != nil {
		o.HasSummaryColumn = true
		for _, s := range values {
			if s == "" {
				continue
			}
			o.Summaries++
			if summary.IsPlaceholder(s) {
				o.FailedSummaries++
			}
		}
	}
	return o
}

// DateSpan renders the date range as "first to last", or "" when no date
// could be parsed.
func (o Overview) DateSpan() string {
	if o.FirstDate.IsZero() {
		return ""
	}
	return dateutils.ToISODate(o.FirstDate) + " to " + dateutils.ToISODate(o.LastDate)
}

// Print writes a human-readable rendering of o to w.
func (o Overview) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Rows:\t%d\n", o.Rows)
	fmt.Fprintf(tw, "Columns:\t%s\n", strings.Join(o.Columns, ", "))
	fmt.Fprintf(tw, "Vendors:\t%d\n", o.Vendors)
	fmt.Fprintf(tw, "Total amount:\t%s\n", o.TotalAmount.StringFixed(2))
	if o.UnparsedAmounts > 0 {
		fmt.Fprintf(tw, "Unparsed amounts:\t%d\n", o.UnparsedAmounts)
	}
	if span := o.DateSpan(); span != "" {
		fmt.Fprintf(tw, "Dates:\t%s\n", span)
	}
	if o.UnparsedDates > 0 {
		fmt.Fprintf(tw, "Unparsed dates:\t%d\n", o.UnparsedDates)
	}
	if o.HasSummaryColumn {
		fmt.Fprintf(tw, "Summaries:\t%d (%d failed)\n", o.Summaries, o.FailedSummaries)
	}
	return tw.Flush()
}

// PrintTable writes table as aligned columns.
func PrintTable(w io.Writer, table *models.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(table.Header, "\t"))
	for _, row := range table.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
