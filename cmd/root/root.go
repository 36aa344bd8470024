// Package root contains the root command for the application
package root

import (
	"errors"
	"sync"

	"fjacquet/invoice-summaries/internal/config"
	"fjacquet/invoice-summaries/internal/container"
	"fjacquet/invoice-summaries/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
}

// ErrNoContainer is returned when a command runs before PersistentPreRunE.
var ErrNoContainer = errors.New("application container not initialized")

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependencies for the running command
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "invoice-summaries",
		Short: "Generate short AI summaries for invoice rows and export them as CSV.",
		Long: `invoice-summaries reads a CSV or Excel file of invoices (Vendor, Amount, Date),
asks a text-generation service for a short summary of each row, and writes the
table back out as CSV with an extra AI_Summary column.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to invoice-summaries!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			cfg, err := config.Load(SharedFlags.ConfigFile)
			if err != nil {
				return err
			}

			c, err := container.NewContainer(cfg)
			if err != nil {
				return err
			}
			AppContainer = c
			Log = c.GetLogger()
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to release resources")
			}
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	initOnce sync.Once
)

// Init initializes the root command and all flags. Repeated calls are no-ops.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input invoice file (.csv or .xlsx)")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file, '-' for stdout")
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.invoice-summaries, .invoice-summaries or .)")
	})
}

// GetContainer returns the container built for the current command.
func GetContainer() (*container.Container, error) {
	if AppContainer == nil {
		return nil, ErrNoContainer
	}
	return AppContainer, nil
}
