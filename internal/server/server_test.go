package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"TradeMind/internal/ai"
	"TradeMind/internal/library"
	"TradeMind/internal/market"
	"TradeMind/internal/model"
	"TradeMind/internal/overlay"
	"TradeMind/internal/terminal"
)

type stubCompleter struct {
	text string
	err  error
}

func (c stubCompleter) Complete(context.Context, string, bool) (string, error) {
	return c.text, c.err
}

func newTestServer(t *testing.T, c ai.Completer) (*Server, *terminal.Session) {
	t.Helper()
	advisor, err := ai.NewAdvisor(c, 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(advisor.Close)
	sess, err := terminal.NewSession(context.Background(), "BTCUSD", terminal.DefaultOptions(), terminal.Deps{
		Feed:    market.NewFeed(market.NewSyntheticSource(3), 50, 3),
		Advisor: advisor,
		Library: library.New(library.NewMemoryKV()),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(sess.Wait)
	return New(sess, nil), sess
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, stubCompleter{})
	tests := []struct {
		path string
		min  int
	}{
		{"/api/pairs", 8},
		{"/api/pairs?category=Crypto", 2},
		{"/api/news", 4},
		{"/api/brokers", 6},
		{"/api/indicators", 10},
		{"/api/tools?q=fib", 3},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var items []json.RawMessage
			if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
				t.Fatal(err)
			}
			if len(items) < tt.min {
				t.Errorf("got %d items, want at least %d", len(items), tt.min)
			}
		})
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv, _ := newTestServer(t, stubCompleter{})
	rec := do(t, srv, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("status=%d headers=%v", rec.Code, rec.Header())
	}
	if rec := do(t, srv, http.MethodOptions, "/api/chart", ""); rec.Code != http.StatusOK {
		t.Errorf("preflight status = %d", rec.Code)
	}
}

func TestDrawingFlow(t *testing.T) {
	srv, _ := newTestServer(t, stubCompleter{})

	if rec := do(t, srv, http.MethodPost, "/api/chart/tool", `{"tool":"Trend Line"}`); rec.Code != http.StatusOK {
		t.Fatalf("tool status = %d: %s", rec.Code, rec.Body)
	}
	do(t, srv, http.MethodPost, "/api/chart/click", `{"x":100,"y":100}`)
	rec := do(t, srv, http.MethodPost, "/api/chart/click", `{"x":400,"y":300}`)
	var click struct {
		Accepted bool              `json:"accepted"`
		State    string            `json:"state"`
		Drawings []overlay.Drawing `json:"drawings"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &click); err != nil {
		t.Fatal(err)
	}
	if !click.Accepted || click.State != "idle" || len(click.Drawings) != 1 || !click.Drawings[0].Complete {
		t.Fatalf("click = %+v", click)
	}

	rec = do(t, srv, http.MethodGet, "/api/chart/overlay.svg", "")
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" || !strings.Contains(rec.Body.String(), "<polyline") {
		t.Errorf("svg ct=%q body=%s", ct, rec.Body)
	}

	if rec := do(t, srv, http.MethodDelete, "/api/chart/drawings", ""); rec.Code != http.StatusNoContent {
		t.Errorf("clear status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/api/chart/drawings", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("drawings after clear = %s", rec.Body)
	}
}

func TestBadInput(t *testing.T) {
	srv, _ := newTestServer(t, stubCompleter{})
	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodPost, "/api/chart/pair", `{"symbol":"NOPE"}`, http.StatusNotFound},
		{http.MethodPost, "/api/chart/pair", `{`, http.StatusBadRequest},
		{http.MethodPost, "/api/chart/type", `{"chartType":"Renko"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/chart/viewport", `{"width":0,"height":10}`, http.StatusBadRequest},
		{http.MethodPost, "/api/backtest", `{"description":"x","startDate":"01/01/2023"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/backtest", `{"description":"  "}`, http.StatusBadRequest},
		{http.MethodPost, "/api/strategies", `{"name":"","description":"rsi"}`, http.StatusBadRequest},
		{http.MethodDelete, "/api/strategies/missing", "", http.StatusNotFound},
		{http.MethodPost, "/api/strategies/missing/load", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := do(t, srv, tt.method, tt.path, tt.body)
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
			continue
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Errorf("%s %s: error body %q", tt.method, tt.path, rec.Body)
		}
	}
}

func TestBacktestFallbackOverHTTP(t *testing.T) {
	srv, sess := newTestServer(t, stubCompleter{err: errors.New("unreachable")})
	rec := do(t, srv, http.MethodPost, "/api/backtest", `{"description":"Buy the dip","startDate":"2024-01-01","endDate":"2024-03-01"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	sess.Wait()

	rec = do(t, srv, http.MethodGet, "/api/backtest", "")
	var console terminal.Console
	if err := json.Unmarshal(rec.Body.Bytes(), &console); err != nil {
		t.Fatal(err)
	}
	if console.Result == nil || *console.Result != ai.FallbackBacktest() {
		t.Errorf("result = %+v", console.Result)
	}
	if console.StartDate != "2024-01-01" || console.Pending {
		t.Errorf("console = %+v", console)
	}
}

func TestRejectedBacktestKeepsDates(t *testing.T) {
	srv, sess := newTestServer(t, stubCompleter{})
	before := sess.BacktestState()

	rec := do(t, srv, http.MethodPost, "/api/backtest", `{"description":" ","startDate":"2020-01-01","endDate":"2020-02-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodPost, "/api/backtest", `{"startDate":"2020-01-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without a draft = %d", rec.Code)
	}

	after := sess.BacktestState()
	if after.StartDate != before.StartDate || after.EndDate != before.EndDate {
		t.Errorf("dates changed to %s..%s", after.StartDate, after.EndDate)
	}
	if after.Pending || after.Result != nil {
		t.Errorf("console = %+v", after)
	}
}

func TestAnalysisOverHTTP(t *testing.T) {
	srv, sess := newTestServer(t, stubCompleter{text: "Bullish momentum."})
	if rec := do(t, srv, http.MethodPost, "/api/analysis", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	sess.Wait()
	rec := do(t, srv, http.MethodGet, "/api/analysis", "")
	var trend terminal.TrendState
	if err := json.Unmarshal(rec.Body.Bytes(), &trend); err != nil {
		t.Fatal(err)
	}
	if trend.Text != "Bullish momentum." || trend.Symbol != "BTCUSD" {
		t.Errorf("trend = %+v", trend)
	}
}

func TestStrategyEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, stubCompleter{})
	rec := do(t, srv, http.MethodPost, "/api/strategies", `{"name":"Breakout","description":"Buy 20d highs"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body)
	}
	var saved model.SavedStrategy
	json.Unmarshal(rec.Body.Bytes(), &saved)

	rec = do(t, srv, http.MethodGet, "/api/strategies", "")
	var list []model.SavedStrategy
	json.Unmarshal(rec.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Fatalf("list = %+v", list)
	}

	do(t, srv, http.MethodPost, "/api/backtest", `{"description":"something else"}`)
	rec = do(t, srv, http.MethodPost, "/api/strategies/"+saved.ID+"/load", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"strategy":"Buy 20d highs"`) {
		t.Errorf("load = %d %s", rec.Code, rec.Body)
	}

	if rec := do(t, srv, http.MethodDelete, "/api/strategies/"+saved.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
}
