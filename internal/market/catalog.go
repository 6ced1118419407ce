package market

import "TradeMind/internal/model"

var pairs = []model.Pair{
	{Symbol: "BTCUSD", Name: "Bitcoin", Category: model.CategoryCrypto, Price: 65483.25, Change: 2.4},
	{Symbol: "ETHUSD", Name: "Ethereum", Category: model.CategoryCrypto, Price: 3450.10, Change: -1.2},
	{Symbol: "NIFTY", Name: "Nifty 50", Category: model.CategoryIndStocks, Price: 25088.40, Change: 0.8},
	{Symbol: "BANKNIFTY", Name: "Bank Nifty", Category: model.CategoryIndStocks, Price: 47500.20, Change: 1.1},
	{Symbol: "AAPL", Name: "Apple Inc", Category: model.CategoryUSStocks, Price: 178.35, Change: 0.5},
	{Symbol: "TSLA", Name: "Tesla", Category: model.CategoryUSStocks, Price: 169.80, Change: -2.1},
	{Symbol: "RELIANCE", Name: "Reliance Ind", Category: model.CategoryIndStocks, Price: 2950.00, Change: 1.1},
	{Symbol: "XAUUSD", Name: "Gold", Category: model.CategoryCommodities, Price: 2350.20, Change: 0.8},
}

var news = []model.NewsItem{
	{ID: 1, Title: "BTCUSD: Reacts to Key Support - Corrective Bounce To $82,200", Source: "Ratner", Time: "4h ago", Sentiment: model.SentimentPositive},
	{ID: 2, Title: "EURUSD Short: Rally Stalls at Supply - Key Reaction Near 1.1800", Source: "heniitrading", Time: "4h ago", Sentiment: model.SentimentNegative},
	{ID: 3, Title: `Gold and Silver Crash: A Coordinated Sell-Off, Not "Profit Taking"`, Source: "KlejdiCuni", Time: "18h ago", Sentiment: model.SentimentNegative},
	{ID: 4, Title: "Nifty hits all-time high amidst strong foreign inflows", Source: "MarketPulse", Time: "1d ago", Sentiment: model.SentimentPositive},
}

var brokers = []model.Broker{
	{ID: "paper", Name: "Paper Trading", Logo: "📝", Rating: 5.0, Type: "Paper"},
	{ID: "zerodha", Name: "Zerodha", Logo: "🪁", Rating: 4.6, Type: "Stocks"},
	{ID: "ibkr", Name: "Interactive Brokers", Logo: "🏦", Rating: 4.5, Type: "Stocks"},
	{ID: "alpaca", Name: "Alpaca", Logo: "🦙", Rating: 4.3, Type: "Stocks"},
	{ID: "binance", Name: "Binance", Logo: "🟡", Rating: 4.4, Type: "Crypto"},
	{ID: "coinbase", Name: "Coinbase", Logo: "🔵", Rating: 4.2, Type: "Crypto"},
}

// Indicator is an entry in the indicator picker.
type Indicator struct {
	Name     string `json:"name"`
	Author   string `json:"author,omitempty"`
	Likes    int    `json:"likes,omitempty"`
	Category string `json:"category"` // favorite, standard or community
}

var indicators = []Indicator{
	{Name: "Bollinger Bands", Category: "standard"},
	{Name: "Moving Average Convergence Divergence", Category: "standard"},
	{Name: "Relative Strength Index (RSI)", Category: "standard"},
	{Name: "SuperTrend", Author: "KivancOzbilgic", Likes: 67400, Category: "community"},
	{Name: "Squeeze Momentum Indicator", Author: "LazyBear", Likes: 108200, Category: "community"},
	{Name: "Smart Money Concepts [LuxAlgo]", Author: "LuxAlgo", Likes: 115600, Category: "community"},
	{Name: "Linear Regression Candles", Category: "standard"},
	{Name: "Volume", Category: "standard"},
	{Name: "Auto Fib Retracement", Category: "standard"},
	{Name: "Order Block Finder (Experimental)", Author: "wugamlo", Likes: 31100, Category: "community"},
}

// ChartTypes lists the series styles a chart can be configured with.
var ChartTypes = []string{"Bar", "Candles", "Hollow Candles", "Line", "Area", "Heikin Ashi", "Baseline"}

// Pairs returns the watchlist catalog.
func Pairs() []model.Pair {
	out := make([]model.Pair, len(pairs))
	copy(out, pairs)
	return out
}

// PairBySymbol looks a pair up in the catalog.
func PairBySymbol(symbol string) (model.Pair, bool) {
	for _, p := range pairs {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return model.Pair{}, false
}

// News returns the static headline list.
func News() []model.NewsItem {
	out := make([]model.NewsItem, len(news))
	copy(out, news)
	return out
}

// Brokers returns the static broker list.
func Brokers() []model.Broker {
	out := make([]model.Broker, len(brokers))
	copy(out, brokers)
	return out
}

// Indicators returns the indicator picker entries.
func Indicators() []Indicator {
	out := make([]Indicator, len(indicators))
	copy(out, indicators)
	return out
}

// IsChartType reports whether name is a known series style.
func IsChartType(name string) bool {
	for _, t := range ChartTypes {
		if t == name {
			return true
		}
	}
	return false
}

// Watchlist returns the catalog with each price replaced by the feed's last close
// where the feed has a series for that symbol.
func Watchlist(feed *Feed) []model.Pair {
	out := Pairs()
	if feed == nil {
		return out
	}
	for i := range out {
		if last, ok := feed.Last(out[i].Symbol); ok {
			out[i].Price = last.Close
		}
	}
	return out
}
