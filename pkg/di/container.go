// Package di provides dependency injection container
package di

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ssargent/omniconv/pkg/api" //nolint:depguard
	"github.com/ssargent/omniconv/pkg/config"
	"github.com/ssargent/omniconv/pkg/convert"
	"github.com/ssargent/omniconv/pkg/logging"
)

// Container holds all the dependencies for the application
type Container struct {
	config        *config.Config
	logger        *zap.Logger
	serverFactory api.ServerFactory
}

// NewContainer creates a new dependency injection container with the
// default configuration and a no-op logger.
func NewContainer() *Container {
	return &Container{
		config:        config.DefaultConfig(),
		logger:        zap.NewNop(),
		serverFactory: api.NewServerFactory(),
	}
}

// Configure replaces the configuration and rebuilds the logger from it
func (c *Container) Configure(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	c.config = cfg
	c.logger = logger
	return nil
}

// Config returns the active configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the application logger
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// SetLogger allows overriding the logger (for testing)
func (c *Container) SetLogger(logger *zap.Logger) {
	c.logger = logger
}

// Converter returns a converter using the configured conversion options
func (c *Container) Converter() *convert.Converter {
	return c.ConverterFor(c.config.Convert)
}

// ConverterFor returns a converter for cfg, which may differ from the
// container's own settings. Commands use it for per-invocation overrides.
func (c *Container) ConverterFor(cfg config.Convert) *convert.Converter {
	opts := convert.DefaultOptions()
	opts.Force = cfg.Force
	opts.Table.CRLF = cfg.CRLF
	opts.Logger = c.logger
	return convert.New(opts)
}

// ServerConfig returns the API server configuration
func (c *Container) ServerConfig() api.ServerConfig {
	return ServerConfigFor(c.config)
}

// ServerConfigFor maps cfg to the API server configuration
func ServerConfigFor(cfg *config.Config) api.ServerConfig {
	return api.ServerConfig{
		Bind:         cfg.Server.Bind,
		Port:         cfg.Server.Port,
		APIKey:       cfg.Security.APIKey,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
