// Package summarize generates summaries for an invoice file
package summarize

import (
	"fjacquet/invoice-summaries/cmd/common"
	"fjacquet/invoice-summaries/cmd/root"
	"fjacquet/invoice-summaries/internal/logging"

	"github.com/spf13/cobra"
)

// Cmd represents the summarize command
var Cmd = &cobra.Command{
	Use:   "summarize",
	Short: "Add an AI_Summary column to an invoice file",
	Long: `Read a CSV or Excel invoice file, generate a short summary for every row and
write the table as CSV with an AI_Summary column. Rows whose summary could not be
generated carry an "Error generating description: ..." placeholder instead.`,
	Example: `  invoice-summaries summarize -i invoices.xlsx
  invoice-summaries summarize -i invoices.csv -o - > summaries.csv`,
	RunE: summarizeFunc,
}

func summarizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	stats, err := common.SummarizeFile(cmd.Context(), c, root.SharedFlags.Input, root.SharedFlags.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if stats.Failed > 0 {
		root.Log.Warn("Some summaries could not be generated",
			logging.F(logging.FieldFailed, stats.Failed),
			logging.F(logging.FieldCount, stats.Rows))
	}
	return nil
}
