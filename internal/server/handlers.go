package server

import (
	"errors"
	"net/http"
	"strings"

	"TradeMind/internal/market"
	"TradeMind/internal/overlay"
)

var errBlankStrategy = errors.New("strategy description is empty")

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	pairs := market.Watchlist(s.session.Feed())
	if cat := r.URL.Query().Get("category"); cat != "" {
		filtered := pairs[:0]
		for _, p := range pairs {
			if string(p.Category) == cat {
				filtered = append(filtered, p)
			}
		}
		pairs = filtered
	}
	writeJSON(w, http.StatusOK, pairs)
}

func (s *Server) handleNews(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, market.News())
}

func (s *Server) handleBrokers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, market.Brokers())
}

func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, market.Indicators())
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, overlay.FilterTools(q.Get("category"), q.Get("q")))
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSelectPair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbol string `json:"symbol"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SelectPair(req.Symbol); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, market.ErrUnknownSymbol) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSelectTool(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tool string `json:"tool"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SelectTool(req.Tool); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"tool": s.session.Snapshot().Tool})
}

func (s *Server) handleMagnet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.session.SetMagnet(req.Enabled)
	writeJSON(w, http.StatusOK, map[string]bool{"magnet": req.Enabled})
}

func (s *Server) handleChartType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChartType string `json:"chartType"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.SetChartType(req.ChartType); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"chartType": req.ChartType})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		writeError(w, http.StatusBadRequest, errors.New("width and height must be positive"))
		return
	}
	s.session.Resize(req.Width, req.Height)
	writeJSON(w, http.StatusOK, s.session.Snapshot().Viewport)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	accepted := s.session.Click(req.X, req.Y)
	snap := s.session.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"accepted": accepted,
		"state":    snap.State,
		"current":  snap.Current,
		"drawings": snap.Drawings,
	})
}

func (s *Server) handleDrawings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Drawings())
}

func (s *Server) handleClearDrawings(w http.ResponseWriter, _ *http.Request) {
	s.session.ClearDrawings()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOverlaySVG(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write([]byte(s.session.OverlaySVG()))
}

func (s *Server) handleRequestAnalysis(w http.ResponseWriter, _ *http.Request) {
	tag := s.session.RequestTrendAnalysis()
	writeJSON(w, http.StatusAccepted, map[string]uint64{"request": tag})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Trend())
}

func (s *Server) handleRunBacktest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Description *string `json:"description"`
		StartDate   string  `json:"startDate"`
		EndDate     string  `json:"endDate"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	draft := s.session.BacktestState().Strategy
	if req.Description != nil {
		draft = *req.Description
	}
	if strings.TrimSpace(draft) == "" {
		writeError(w, http.StatusBadRequest, errBlankStrategy)
		return
	}
	if err := s.session.SetDateRange(req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.session.SetStrategy(draft)
	tag, ok := s.session.RunBacktest()
	if !ok {
		writeError(w, http.StatusBadRequest, errBlankStrategy)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]uint64{"request": tag})
}

func (s *Server) handleBacktest(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.BacktestState())
}

func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.session.Strategies())
}

func (s *Server) handleSaveStrategy(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Description != nil {
		s.session.SetStrategy(*req.Description)
	}
	saved, ok, err := s.session.SaveStrategy(req.Name)
	if err != nil {
		s.logger.Error().Err(err).Msg("save strategy")
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("name and description are required"))
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	ok, err := s.session.DeleteStrategy(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("strategy not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLoadStrategy(w http.ResponseWriter, r *http.Request) {
	st, ok := s.session.LoadStrategy(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("strategy not found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"strategy": st,
		"console":  s.session.BacktestState(),
	})
}
