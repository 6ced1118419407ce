package model

// SeriesPoint is one value of an indicator pane, aligned to a bar time.
type SeriesPoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Legend holds the indicator values shown next to the chart symbol.
type Legend struct {
	LastClose float64       `json:"last_close"`
	RSI       *float64      `json:"rsi,omitempty"`
	RSIPane   []SeriesPoint `json:"rsi_pane,omitempty"`
	MA        *float64      `json:"ma,omitempty"`
	RangeHigh *float64      `json:"range_high,omitempty"`
	RangeLow  *float64      `json:"range_low,omitempty"`
}
