// Package serve runs the upload and download web interface
package serve

import (
	"fjacquet/invoice-summaries/cmd/root"
	"fjacquet/invoice-summaries/internal/server"

	"github.com/spf13/cobra"
)

var addr string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the invoice upload page",
	Long: `Start an HTTP server where an invoice file can be uploaded, previewed and
turned into a downloadable invoice_with_ai_summaries.csv.`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from server.addr)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	applier, err := c.GetApplier(cmd.Context())
	if err != nil {
		return err
	}

	cfg := c.GetConfig()
	listen := addr
	if listen == "" {
		listen = cfg.Server.Addr
	}

	srv := server.New(c.GetCodec(), applier, c.GetLogger(), server.Options{
		FileName:       cfg.Export.FileName,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	return srv.ListenAndServe(cmd.Context(), listen)
}
