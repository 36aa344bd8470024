package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"fjacquet/invoice-summaries/cmd/batch"
	configcmd "fjacquet/invoice-summaries/cmd/config"
	"fjacquet/invoice-summaries/cmd/inspect"
	"fjacquet/invoice-summaries/cmd/root"
	"fjacquet/invoice-summaries/cmd/serve"
	"fjacquet/invoice-summaries/cmd/summarize"
	"fjacquet/invoice-summaries/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Set the global logrus level before anything logs
	configureLogLevelDirectly()

	root.Init()

	root.Cmd.AddCommand(summarize.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(configcmd.Cmd)
}

// configureLogLevelDirectly sets the global logrus level from LOG_LEVEL
func configureLogLevelDirectly() logrus.Level {
	logLevel, err := logrus.ParseLevel(strings.ToLower(config.GetEnv("LOG_LEVEL", "info")))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	return logLevel
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
