// Package container provides dependency injection for the application.
// It centralizes the creation and wiring of all components, making them
// explicit and testable.
package container

import (
	"fmt"

	"momo-etl/internal/categorizer"
	"momo-etl/internal/config"
	"momo-etl/internal/dedupe"
	"momo-etl/internal/engine"
	"momo-etl/internal/logging"
	"momo-etl/internal/sink"
	"momo-etl/internal/smsxml"
	"momo-etl/internal/store"
	"momo-etl/internal/template"
)

// Container holds all application dependencies. It is immutable after
// creation: fields are private and reachable only through getters, so a
// command cannot swap a dependency mid-run.
type Container struct {
	logger   logging.Logger
	config   *config.Config
	store    *store.TemplateStore
	library  *template.Library
	reader   *smsxml.Reader
	failures *sink.Memory
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)

	templateStore := store.NewTemplateStore(cfg.Templates.File, logger)
	library, err := templateStore.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("failed to load template library: %w", err)
	}

	return &Container{
		logger:   logger,
		config:   cfg,
		store:    templateStore,
		library:  library,
		reader:   smsxml.NewReader(logger),
		failures: sink.NewMemory(),
	}, nil
}

// GetLogger returns the configured logger.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the application configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetTemplateStore returns the template store.
func (c *Container) GetTemplateStore() *store.TemplateStore {
	return c.store
}

// GetLibrary returns the compiled template library.
func (c *Container) GetLibrary() *template.Library {
	return c.library
}

// GetReader returns the SMS export reader.
func (c *Container) GetReader() *smsxml.Reader {
	return c.reader
}

// GetFailureSink returns the in-memory failure sink for the run.
func (c *Container) GetFailureSink() *sink.Memory {
	return c.failures
}

// NewPipeline assembles a fresh pipeline for one run. The dedup registry is
// per-pipeline: duplicate detection is scoped to a run, not the process.
func (c *Container) NewPipeline(extraSinks ...sink.Sink) *engine.Pipeline {
	cat := categorizer.NewDefault(c.logger)
	scorer := categorizer.NewScorer(c.config.Engine.ConfidenceThreshold)
	registry := dedupe.NewRegistry()

	dispatcher := engine.NewDispatcher(
		c.library, cat, scorer, registry,
		c.config.Engine.CountryCode, c.config.Engine.Currency,
		c.logger,
	)

	failures := sink.Sink(c.failures)
	if len(extraSinks) > 0 {
		failures = append(sink.Tee{c.failures}, extraSinks...)
	}

	return engine.NewPipeline(dispatcher, failures, c.config.Engine.Workers, c.logger)
}
