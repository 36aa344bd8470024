// Package batch handles batch processing of files
package batch

import (
	"fmt"

	"fjacquet/invoice-summaries/cmd/common"
	"fjacquet/invoice-summaries/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch process invoice files from a directory",
	Long: `Batch process invoice files from an input directory and write the results to another directory.

Every .csv and .xlsx file in the input directory gets an AI_Summary column and is
written to the output directory as <name>_with_ai_summaries.csv. Files that cannot
be loaded are reported and skipped.

Example:
  invoice-summaries batch -i invoices/ -o summaries/`,
	RunE: batchFunc,
}

func init() {
	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	count, err := common.SummarizeDirectory(cmd.Context(), c, root.SharedFlags.Input, root.SharedFlags.Output)
	if err != nil {
		return err
	}

	root.Log.Info(fmt.Sprintf("Batch processing completed. %d summary files created.", count))
	return nil
}
