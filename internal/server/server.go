// Package server exposes a terminal session over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"TradeMind/internal/logging"
	"TradeMind/internal/terminal"
)

// Server routes the terminal API.
type Server struct {
	session *terminal.Session
	ws      http.Handler
	mux     *http.ServeMux
	logger  zerolog.Logger
}

// New builds the router. ws serves /ws; nil disables streaming.
func New(session *terminal.Session, ws http.Handler) *Server {
	s := &Server{
		session: session,
		ws:      ws,
		mux:     http.NewServeMux(),
		logger:  logging.Component("server"),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/pairs", s.handlePairs)
	s.mux.HandleFunc("GET /api/news", s.handleNews)
	s.mux.HandleFunc("GET /api/brokers", s.handleBrokers)
	s.mux.HandleFunc("GET /api/indicators", s.handleIndicators)
	s.mux.HandleFunc("GET /api/tools", s.handleTools)

	s.mux.HandleFunc("GET /api/chart", s.handleChart)
	s.mux.HandleFunc("POST /api/chart/pair", s.handleSelectPair)
	s.mux.HandleFunc("POST /api/chart/tool", s.handleSelectTool)
	s.mux.HandleFunc("POST /api/chart/magnet", s.handleMagnet)
	s.mux.HandleFunc("POST /api/chart/type", s.handleChartType)
	s.mux.HandleFunc("POST /api/chart/viewport", s.handleViewport)
	s.mux.HandleFunc("POST /api/chart/click", s.handleClick)
	s.mux.HandleFunc("GET /api/chart/drawings", s.handleDrawings)
	s.mux.HandleFunc("DELETE /api/chart/drawings", s.handleClearDrawings)
	s.mux.HandleFunc("GET /api/chart/overlay.svg", s.handleOverlaySVG)

	s.mux.HandleFunc("POST /api/analysis", s.handleRequestAnalysis)
	s.mux.HandleFunc("GET /api/analysis", s.handleAnalysis)
	s.mux.HandleFunc("POST /api/backtest", s.handleRunBacktest)
	s.mux.HandleFunc("GET /api/backtest", s.handleBacktest)

	s.mux.HandleFunc("GET /api/strategies", s.handleStrategies)
	s.mux.HandleFunc("POST /api/strategies", s.handleSaveStrategy)
	s.mux.HandleFunc("DELETE /api/strategies/{id}", s.handleDeleteStrategy)
	s.mux.HandleFunc("POST /api/strategies/{id}/load", s.handleLoadStrategy)

	if s.ws != nil {
		s.mux.Handle("GET /ws", s.ws)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	corsMiddleware(s.mux).ServeHTTP(w, r)
	s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}
