/*
Copyright © 2026 Acronis International GmbH.

Released under MIT license.
*/

package fakeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/acronis/go-crptapi/log"
)

// CreateDocumentPath is the path of the document creation endpoint.
const CreateDocumentPath = "/api/v3/lk/documents/create"

// SignatureHeader is the name of the header that must carry the document signature.
const SignatureHeader = "Signature"

const maxRequestBodySize = 1 << 20

// Stats contains counters of requests handled by the Server.
type Stats struct {
	Accepted int64
	Rejected int64
	Invalid  int64
}

// ErrorResponse is the body of non-successful responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateDocumentResponse is the body of the successful document creation response.
type CreateDocumentResponse struct {
	Value string `json:"value"`
}

// Server is a fake registration API server.
type Server struct {
	Logger     log.FieldLogger
	HTTPServer *http.Server

	limiter  Limiter
	accepted atomic.Int64
	rejected atomic.Int64
	invalid  atomic.Int64
	done     atomic.Value
}

// New creates a new fake registration API server.
func New(cfg *Config, logger log.FieldLogger) (*Server, error) {
	limiter, err := newLimiter(cfg)
	if err != nil {
		return nil, fmt.Errorf("new server limiter: %w", err)
	}
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	s := &Server{Logger: logger, limiter: limiter}
	s.HTTPServer = &http.Server{
		Addr:              cfg.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the http.Handler that serves the fake API routes.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer)
	router.Post(CreateDocumentPath, s.createDocument)
	return router
}

// Stats returns a snapshot of the request counters.
func (s *Server) Stats() Stats {
	return Stats{Accepted: s.accepted.Load(), Rejected: s.rejected.Load(), Invalid: s.invalid.Load()}
}

// Start starts the server in a blocking way.
// It's supposed that this method will be called in a separate goroutine.
// If a fatal error occurs, it will be sent to the fatalError channel.
func (s *Server) Start(fatalError chan<- error) {
	done := make(chan struct{})
	defer close(done)
	s.done.Store(done)

	logger := s.Logger.With(log.String("address", s.HTTPServer.Addr))
	logger.Info("starting fake registration API server...")

	listener, err := net.Listen("tcp", s.HTTPServer.Addr)
	if err != nil {
		logger.Error("fake registration API server error", log.Error(err))
		fatalError <- err
		return
	}
	if err = s.HTTPServer.Serve(listener); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			logger.Info("fake registration API server closed")
			return
		}
		logger.Error("fake registration API server error", log.Error(err))
		fatalError <- err
	}
}

// Stop gracefully shuts down the server and waits until Start returns.
func (s *Server) Stop(ctx context.Context) error {
	s.Logger.Info("shutting down fake registration API server...")
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		s.Logger.Error("fake registration API server shutting down error", log.Error(err))
		return err
	}
	if done, ok := s.done.Load().(chan struct{}); ok && done != nil {
		<-done
	}
	s.Logger.Info("fake registration API server shut down")
	return nil
}

func (s *Server) createDocument(rw http.ResponseWriter, r *http.Request) {
	logger := s.Logger.With(log.String("request_id", middleware.GetReqID(r.Context())))

	allow, retryAfter, err := s.limiter.Allow(r.Context(), clientKey(r))
	if err != nil {
		logger.Error("rate limiting error", log.Error(err))
		respondError(rw, http.StatusInternalServerError, "internalError", "Internal error.", logger)
		return
	}
	if !allow {
		s.rejected.Inc()
		logger.Warn("rate limit exceeded", log.Int64("retry_after_ms", retryAfter.Milliseconds()))
		rw.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
		respondError(rw, http.StatusTooManyRequests, "tooManyRequests", "Too many requests.", logger)
		return
	}

	if r.Header.Get(SignatureHeader) == "" {
		s.invalid.Inc()
		respondError(rw, http.StatusUnauthorized, "signatureRequired", "Signature header is required.", logger)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		s.invalid.Inc()
		respondError(rw, http.StatusBadRequest, "badRequest", "Request body cannot be read.", logger)
		return
	}
	var doc map[string]interface{}
	if err = json.Unmarshal(body, &doc); err != nil {
		s.invalid.Inc()
		respondError(rw, http.StatusBadRequest, "badRequest", "Request body must be a JSON object.", logger)
		return
	}

	s.accepted.Inc()
	docID, _ := doc["doc_id"].(string)
	resp := CreateDocumentResponse{Value: xid.New().String()}
	logger.Info("document accepted", log.String("doc_id", docID), log.String("value", resp.Value))
	respondJSON(rw, http.StatusOK, resp, logger)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func respondError(rw http.ResponseWriter, statusCode int, code, message string, logger log.FieldLogger) {
	respondJSON(rw, statusCode, ErrorResponse{Code: code, Message: message}, logger)
}

func respondJSON(rw http.ResponseWriter, statusCode int, respData interface{}, logger log.FieldLogger) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(respData); err != nil {
		logger.Error("error while marshaling json for response body", log.Error(err))
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(statusCode)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		logger.Error("error while writing response body", log.Error(err))
	}
}
