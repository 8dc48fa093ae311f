package api

import (
	"context"

	"go.uber.org/zap"
)

// ServerStarter starts the API server
type ServerStarter interface {
	StartServer(ctx context.Context, converter Converter, config ServerConfig, logger *zap.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	CreateServerStarter() ServerStarter
}

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter starts a real HTTP server
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(ctx context.Context, converter Converter, config ServerConfig, logger *zap.Logger) error {
	return StartServer(ctx, converter, config, logger)
}
