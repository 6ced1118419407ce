package model

// Candle is one OHLC bucket. Time is unix seconds.
type Candle struct {
	Time  int64   `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// PairCategory groups watchlist symbols.
type PairCategory string

const (
	CategoryCrypto      PairCategory = "Crypto"
	CategoryUSStocks    PairCategory = "US Stocks"
	CategoryIndStocks   PairCategory = "Ind Stocks"
	CategoryCommodities PairCategory = "Commodities"
)

// Pair is a tradable symbol shown in the watchlist.
type Pair struct {
	Symbol   string       `json:"symbol"`
	Name     string       `json:"name"`
	Category PairCategory `json:"category"`
	Price    float64      `json:"price"`
	Change   float64      `json:"change"` // 24h change, percent
}

// Tick is a single synthetic market update for one symbol.
type Tick struct {
	Symbol   string `json:"symbol"`
	Candle   Candle `json:"candle"`
	Appended bool   `json:"appended"` // true when the tick opened a new candle
}
