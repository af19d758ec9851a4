package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/danielpatrickdp/stablegate/internal/config"
	"github.com/danielpatrickdp/stablegate/internal/convert"
	"github.com/danielpatrickdp/stablegate/internal/enforcer"
	"github.com/danielpatrickdp/stablegate/internal/heuristic"
	"github.com/danielpatrickdp/stablegate/internal/pipeline"
	"github.com/danielpatrickdp/stablegate/internal/seal"
	"github.com/danielpatrickdp/stablegate/internal/settle"
)

// #region server

// Deps bundles the pipeline instances the router dispatches to.
type Deps struct {
	Pipeline  *pipeline.Pipeline
	Converter *convert.Converter
	Enforcer  *enforcer.Enforcer
	Heuristic *heuristic.Heuristic
}

// Server is the request router: it decodes requests, calls the pipeline,
// and encodes typed outcomes. No admission logic lives here.
type Server struct {
	cfg  config.Config
	deps Deps
	srv  *http.Server
}

// New creates a router over the given pipeline instances.
func New(cfg config.Config, deps Deps) *Server {
	return &Server{cfg: cfg, deps: deps}
}

// #endregion server

// #region routes

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/process", s.handleProcess)
	mux.HandleFunc("POST /v1/seal", s.handleSeal)
	mux.HandleFunc("POST /v1/unseal", s.handleUnseal)
	mux.HandleFunc("POST /v1/sign", s.handleSign)
	mux.HandleFunc("POST /v1/verify", s.handleVerify)
	mux.HandleFunc("POST /v1/convert", s.handleConvert)
	mux.HandleFunc("POST /v1/transfer", s.handleTransfer)
	mux.HandleFunc("POST /v1/breach", s.handleBreach)
	mux.HandleFunc("GET /v1/rules", s.handleRules)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[SERVER] listening on %s", s.cfg.ListenAddr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ReloadConfig re-reads the config file and applies the runtime-mutable
// parts: the heuristic baseline. Marker vocabularies and thresholds are
// construction-time and need a restart.
func (s *Server) ReloadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	s.deps.Heuristic.SetBaseline(cfg.BaselineScore)
	log.Printf("[SERVER] config reloaded, baseline=%.2f", cfg.BaselineScore)
	return nil
}

// #endregion routes

// #region handlers

type processRequest struct {
	Content string  `json:"content"`
	Amount  float64 `json:"amount"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.deps.Pipeline.Process(req.Content, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSeal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	token, err := s.deps.Pipeline.SealOnly(req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleUnseal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}
	content, err := s.deps.Pipeline.Unseal(req.Token)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleSign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !decode(w, r, &req) {
		return
	}
	sig, err := s.deps.Pipeline.Sign(req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"signature": sig})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content   string `json:"content"`
		Signature string `json:"signature"`
	}
	if !decode(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": s.deps.Pipeline.Verify(req.Content, req.Signature)})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string  `json:"content"`
		Origin  string  `json:"origin"`
		Target  string  `json:"target"`
		Amount  float64 `json:"amount"`
	}
	if !decode(w, r, &req) {
		return
	}
	res, err := s.deps.Converter.Convert(req.Content, req.Origin, req.Target, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tx        string `json:"tx"`
		Origin    string `json:"origin"`
		Recipient string `json:"recipient"`
	}
	if !decode(w, r, &req) {
		return
	}
	key, err := s.deps.Enforcer.Enforce(req.Tx, req.Origin, req.Recipient)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"settlement_key": key})
}

func (s *Server) handleBreach(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"breaches": s.deps.Pipeline.ReportBreach()})
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rules": s.deps.Pipeline.ListRules()})
}

// #endregion handlers

// #region helpers

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[SERVER] encode response: %v", err)
	}
}

// writeError maps typed pipeline outcomes to status codes. Everything in
// the taxonomy is an expected result, not a server fault.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, pipeline.ErrDisallowedContent), errors.Is(err, pipeline.ErrLowScore):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, seal.ErrInvalidToken):
		status = http.StatusBadRequest
	case errors.Is(err, settle.ErrDuplicateRecord):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// #endregion helpers
