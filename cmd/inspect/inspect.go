// Package inspect prints an invoice file and its overview
package inspect

import (
	"fjacquet/invoice-summaries/cmd/common"
	"fjacquet/invoice-summaries/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the inspect command
var Cmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the contents and totals of an invoice file",
	Long: `Load a CSV or Excel invoice file, print its rows and an overview
(row count, vendors, total amount, date range). No summaries are generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return common.InspectFile(c, root.SharedFlags.Input, cmd.OutOrStdout())
	},
}
