package api

import (
	"github.com/ssargent/omniconv/pkg/convert"
	"github.com/ssargent/omniconv/pkg/document"
)

// Content types served by the API
const (
	ContentTypeJSON   = "application/json"
	ContentTypeCSV    = "text/csv; charset=utf-8"
	ContentTypeBinary = "application/octet-stream"
)

// runIDHeader carries the id of the conversion that produced a response
const runIDHeader = "X-Run-Id"

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"` // Error kind, e.g. TruncatedRecord
	RunID   string      `json:"run_id,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind         string
	Port         int
	APIKey       string // Empty disables authentication
	MaxBodyBytes int64
}

// Converter is the conversion engine behind the HTTP handlers
type Converter interface {
	DecodeBytes(data []byte) ([]byte, *convert.Result, error)
	EncodeText(text []byte) ([]byte, *convert.Result, error)
	InspectBytes(data []byte) (document.Summary, error)
}
