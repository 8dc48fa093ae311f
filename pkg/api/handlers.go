package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/omniconv/pkg/convert"
)

// Server holds the API server state
type Server struct {
	converter Converter
	config    ServerConfig
	metrics   *Metrics
	registry  *prometheus.Registry
	logger    *zap.Logger
	started   time.Time
}

// NewServer creates a new API server. Each server owns its metrics registry.
func NewServer(converter Converter, config ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := prometheus.NewRegistry()
	return &Server{
		converter: converter,
		config:    config,
		metrics:   NewMetrics(registry),
		registry:  registry,
		logger:    logger,
		started:   time.Now(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{
		"status": "healthy",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

// handleDecode converts a binary file in the request body to a text table
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	text, res, err := s.converter.DecodeBytes(body)
	s.recordConversion(convert.ModeDecode, res, err)
	if err != nil {
		s.sendConversionError(w, res, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeCSV)
	w.Header().Set(runIDHeader, res.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(text)
}

// handleEncode converts a text table in the request body to a binary file
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	data, res, err := s.converter.EncodeText(body)
	s.recordConversion(convert.ModeEncode, res, err)
	if err != nil {
		s.sendConversionError(w, res, err)
		return
	}

	w.Header().Set("Content-Type", ContentTypeBinary)
	w.Header().Set(runIDHeader, res.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleInspect summarizes a binary file in the request body
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	runID := ksuid.New().String()
	w.Header().Set(runIDHeader, runID)

	summary, err := s.converter.InspectBytes(body)
	if err != nil {
		s.sendConversionError(w, &convert.Result{RunID: runID}, err)
		return
	}
	sendSuccess(w, summary)
}

// readBody reads the whole request body, answering 413 when it exceeds the
// configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	reader := io.Reader(r.Body)
	if s.config.MaxBodyBytes > 0 {
		reader = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func (s *Server) recordConversion(mode convert.Mode, res *convert.Result, err error) {
	if res == nil {
		return
	}
	kind := ""
	if err != nil {
		kind = convert.ErrorKind(err)
	}
	s.metrics.RecordConversion(mode.String(), kind, res.InputBytes, res.OutputBytes, res.Samples, res.Duration)
}

// sendConversionError answers 422 for rejected input and 500 otherwise
func (s *Server) sendConversionError(w http.ResponseWriter, res *convert.Result, err error) {
	status := http.StatusUnprocessableEntity
	if !convert.IsInputError(err) {
		status = http.StatusInternalServerError
	}

	response := APIResponse{
		Success: false,
		Error:   err.Error(),
		Kind:    convert.ErrorKind(err),
	}
	if res != nil {
		response.RunID = res.RunID
		w.Header().Set(runIDHeader, res.RunID)
	}

	s.logger.Debug("conversion rejected",
		zap.String("run_id", response.RunID),
		zap.String("kind", response.Kind),
		zap.Error(err),
	)
	sendResponse(w, response, status)
}
