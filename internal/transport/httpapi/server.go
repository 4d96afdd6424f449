// Package httpapi exposes the stateless turn pipeline over JSON HTTP.
// Callers own history and memory and send them with every turn.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sandevgo/taleforge/internal/core"
	"github.com/sandevgo/taleforge/internal/service/decision"
	"github.com/sandevgo/taleforge/internal/service/extract"
	"github.com/sandevgo/taleforge/pkg/log"
)

const maxBodyBytes = 1 << 20

type Player interface {
	Play(ctx context.Context, req core.TurnRequest) (core.TurnResult, error)
}

type Server struct {
	player Player
	srv    *http.Server
}

func NewServer(ctx context.Context, addr string, player Player) *Server {
	s := &Server{player: player}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routes with the base context's logger attached to
// every request.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/turn", s.handleTurn)
	mux.HandleFunc("/v1/characters", s.handleCharacters)
	mux.HandleFunc("/v1/analyze", s.handleAnalyze)

	logger := log.FromCtx(log.WithComponent(ctx, "http"))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mux.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
		logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.srv.Addr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodePost(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": core.AppVersion})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req core.TurnRequest
	if !decodePost(w, r, &req) {
		return
	}

	res, err := s.player.Play(r.Context(), req)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"characters": extract.Characters(req.Text)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action  string              `json:"action"`
		History []core.HistoryEntry `json:"history"`
	}
	if !decodePost(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, decision.Analyze(req.Action, req.History))
}
