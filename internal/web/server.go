// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package web exposes the review pipeline over HTTP. The handlers call
// the same core pipeline as the CLI; this layer only adds transport
// concerns: rate limiting, persistence, and JSON encoding.
package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"clausecheck/internal/core"
	"clausecheck/internal/detector"
	"clausecheck/internal/extract"
	"clausecheck/internal/observability"
	"clausecheck/internal/ratelimit"
	"clausecheck/internal/store"
	"clausecheck/internal/version"
)

// maxUploadBytes bounds multipart uploads.
const maxUploadBytes = 10 << 20

// Server serves the review API.
type Server struct {
	port     int
	pipeline *core.Pipeline
	store    store.Store
	limiter  ratelimit.Limiter
	observer *observability.StandardObserver
	mux      *http.ServeMux
	server   *http.Server
}

// Options configures a Server. Limiter and Observer are optional.
type Options struct {
	Port     int
	Pipeline *core.Pipeline
	Store    store.Store
	Limiter  ratelimit.Limiter
	Observer *observability.StandardObserver
}

// AnalyzeRequest is the JSON body for POST /analyze.
type AnalyzeRequest struct {
	Text  string `json:"text"`
	Owner string `json:"owner,omitempty"`
}

// AnalyzeResponse is the response for POST /analyze.
type AnalyzeResponse struct {
	ID         string                  `json:"id"`
	ContractID string                  `json:"contract_id"`
	Result     detector.AnalysisResult `json:"result"`
}

// RedlineRequest is the JSON body for POST /redline.
type RedlineRequest struct {
	Original   string `json:"original"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrorResponse is the body for every non-2xx response.
type ErrorResponse struct {
	Error      string   `json:"error"`
	Categories []string `json:"categories,omitempty"`
}

// NewServer creates a server instance.
func NewServer(opts Options) *Server {
	s := &Server{
		port:     opts.Port,
		pipeline: opts.Pipeline,
		store:    opts.Store,
		limiter:  opts.Limiter,
		observer: opts.Observer,
		mux:      http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

// Handler returns the routing handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the server. If the configured port is busy the next nine
// ports are tried in order.
func (s *Server) Start() error {
	var lastError error
	for i := 0; i < 10; i++ {
		currentPort := s.port + i

		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", currentPort))
		if err != nil {
			lastError = err
			continue
		}

		s.server = s.createSecureServer(currentPort)
		fmt.Printf("clausecheck API listening on http://localhost:%d\n", currentPort)

		err = s.server.Serve(listener)
		if err != nil && err != http.ErrServerClosed {
			lastError = err
			continue
		}
		return nil
	}
	return fmt.Errorf("could not find an available port in range %d-%d: %v", s.port, s.port+9, lastError)
}

// Stop stops the server.
func (s *Server) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/analyze", s.handleAnalyze)
	s.mux.HandleFunc("/redline", s.handleRedline)
	s.mux.HandleFunc("/analyses", s.handleListAnalyses)
	s.mux.HandleFunc("/analyses/", s.handleGetAnalysis)
}

// createSecureServer creates an HTTP server with security timeouts.
func (s *Server) createSecureServer(port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.mux,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	versionInfo := version.Full()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "clausecheck",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   versionInfo["version"],
	})
}

// handleAnalyze accepts either a JSON body with the contract text or a
// multipart upload with a "file" part (text or PDF).
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allow(r) {
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded, retry later")
		return
	}

	text, owner, filename, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	result, err := s.pipeline.Analyze(r.Context(), text)
	if err != nil {
		s.writeAnalyzeError(w, err)
		return
	}

	resp := AnalyzeResponse{Result: result}
	if s.store != nil {
		contractID, err := s.store.SaveContract(r.Context(), store.Contract{
			Owner:    owner,
			Filename: filename,
			Text:     text,
		})
		if err == nil {
			resp.ContractID = contractID
			resp.ID, err = s.store.SaveAnalysis(r.Context(), store.Analysis{
				ContractID: contractID,
				Owner:      owner,
				Result:     result,
			})
		}
		if err != nil {
			s.observer.LogError("web", "save_analysis", err)
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRedline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.allow(r) {
		s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded, retry later")
		return
	}

	var req RedlineRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.pipeline.Redline(r.Context(), req.Original, req.Suggestion)
	if err != nil {
		if errors.Is(err, core.ErrEmptyInput) {
			s.writeError(w, http.StatusBadRequest, "original clause is required")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "redline failed")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "persistence is not enabled")
		return
	}

	analyses, err := s.store.ListAnalyses(r.Context(), r.URL.Query().Get("owner"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "listing analyses failed")
		return
	}
	if analyses == nil {
		analyses = []store.Analysis{}
	}
	s.writeJSON(w, http.StatusOK, analyses)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "persistence is not enabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/analyses/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusBadRequest, "invalid analysis ID")
		return
	}

	analysis, err := s.store.GetAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		s.writeError(w, http.StatusInternalServerError, "loading analysis failed")
		return
	}
	s.writeJSON(w, http.StatusOK, analysis)
}

// readDocument pulls the contract text out of the request, from either
// the JSON body or an uploaded file. It writes the error response itself
// when the request is unusable.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) (text, owner, filename string, ok bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			s.writeError(w, http.StatusBadRequest, "failed to parse form data")
			return "", "", "", false
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "no file uploaded")
			return "", "", "", false
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "reading upload failed")
			return "", "", "", false
		}

		extracted, err := extract.FromBytes(data)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("could not extract text: %v", err))
			return "", "", "", false
		}
		if !extracted.Usable() {
			msg := "document contains no analyzable text"
			if len(extracted.Notes) > 0 {
				msg = msg + ": " + strings.Join(extracted.Notes, "; ")
			}
			s.writeError(w, http.StatusUnprocessableEntity, msg)
			return "", "", "", false
		}
		return extracted.Text, r.FormValue("owner"), header.Filename, true
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return "", "", "", false
	}
	return req.Text, req.Owner, "", true
}

func (s *Server) writeAnalyzeError(w http.ResponseWriter, err error) {
	var blocked *core.ContentBlockedError
	switch {
	case errors.As(err, &blocked):
		s.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "content blocked by moderation",
			Categories: blocked.Categories,
		})
	case errors.Is(err, core.ErrEmptyInput):
		s.writeError(w, http.StatusBadRequest, "document contains no text")
	case errors.Is(err, core.ErrTextTooLarge):
		s.writeError(w, http.StatusRequestEntityTooLarge, "document exceeds the size limit")
	default:
		s.observer.LogError("web", "analyze", err)
		s.writeError(w, http.StatusInternalServerError, "analysis failed")
	}
}

// allow applies the injected rate limiter keyed by client address.
func (s *Server) allow(r *http.Request) bool {
	if s.limiter == nil {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return s.limiter.Allow(host)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
