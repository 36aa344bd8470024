// Package container provides dependency injection for the invoice-summaries
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/invoice-summaries/internal/batch"
	"fjacquet/invoice-summaries/internal/config"
	"fjacquet/invoice-summaries/internal/logging"
	"fjacquet/invoice-summaries/internal/summary"
	"fjacquet/invoice-summaries/internal/tableio"
)

// Container holds all application dependencies and provides methods to access them.
//
// The text client is built on first use, so commands that never call the
// provider (inspect, config) run without an API key.
type Container struct {
	logger logging.Logger
	config *config.Config
	codec  *tableio.Codec

	mu        sync.Mutex
	client    summary.TextClient
	generator *summary.Generator
	applier   *batch.Applier
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	codec := tableio.NewCodec(logger, cfg.DelimiterRune(), cfg.Input.MaxRows)

	logger.Debug("Container initialized",
		logging.F(logging.FieldProvider, cfg.AI.Provider),
		logging.F(logging.FieldModel, cfg.AI.Model),
		logging.F(logging.FieldWorkers, cfg.AI.Concurrency))

	return &Container{
		logger: logger,
		config: cfg,
		codec:  codec,
	}, nil
}

// NewContainerWithTextClient wires the container around an existing text
// client instead of building one from the configuration.
func NewContainerWithTextClient(cfg *config.Config, client summary.TextClient) (*Container, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, fmt.Errorf("text client cannot be nil")
	}
	c.client = client
	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCodec returns the table reader/writer.
func (c *Container) GetCodec() *tableio.Codec {
	return c.codec
}

// GetGenerator returns the summary generator, creating the provider client
// on first call.
func (c *Container) GetGenerator(ctx context.Context) (*summary.Generator, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generatorLocked(ctx)
}

// GetApplier returns the batch applier, creating the provider client on
// first call.
func (c *Container) GetApplier(ctx context.Context) (*batch.Applier, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.applier != nil {
		return c.applier, nil
	}
	gen, err := c.generatorLocked(ctx)
	if err != nil {
		return nil, err
	}
	c.applier = batch.NewApplier(gen, c.logger, c.config.AI.Concurrency)
	return c.applier, nil
}

func (c *Container) generatorLocked(ctx context.Context) (*summary.Generator, error) {
	if c.generator != nil {
		return c.generator, nil
	}

	if c.client == nil {
		client, err := summary.NewTextClient(ctx, summary.ClientOptions{
			Provider:  c.config.AI.Provider,
			Model:     c.config.AI.Model,
			APIKey:    c.config.AI.APIKey,
			BaseURL:   c.config.AI.BaseURL,
			MaxTokens: c.config.AI.MaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create text client: %w", err)
		}
		c.client = client
		c.logger.Info("Text client ready",
			logging.F(logging.FieldProvider, c.config.AI.Provider),
			logging.F(logging.FieldModel, c.config.AI.Model))
	}

	timeout := time.Duration(c.config.AI.TimeoutSeconds) * time.Second
	c.generator = summary.NewGenerator(c.client, c.logger, timeout)
	return c.generator, nil
}

// Close releases the provider client, if one was created.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil {
		return nil
	}
	if err := summary.CloseClient(c.client); err != nil {
		return fmt.Errorf("failed to close text client: %w", err)
	}
	c.logger.Debug("Container closed")
	return nil
}
