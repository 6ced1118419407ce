package model

// StrategyParams is the input of an AI backtest request.
type StrategyParams struct {
	Pair        string `json:"pair"`
	StartDate   string `json:"startDate"` // YYYY-MM-DD
	EndDate     string `json:"endDate"`   // YYYY-MM-DD
	Description string `json:"description"`
}

// BacktestResult is the simulated backtest returned by the AI service.
type BacktestResult struct {
	WinRate        float64 `json:"winRate"`
	TotalTrades    int     `json:"totalTrades"`
	NetProfit      float64 `json:"netProfit"` // percent, signed
	ProfitFactor   float64 `json:"profitFactor"`
	MaxDrawdown    float64 `json:"maxDrawdown"` // percent, non-negative
	Analysis       string  `json:"analysis"`
	PineScriptCode string  `json:"pineScriptCode"`
}
