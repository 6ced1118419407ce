package model

// Sentiment tags a headline.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// NewsItem is a static headline for the news panel.
type NewsItem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	Time      string    `json:"time"`
	Sentiment Sentiment `json:"sentiment"`
}

// Broker is an entry in the broker list.
type Broker struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Logo   string  `json:"logo"`
	Rating float64 `json:"rating"`
	Type   string  `json:"type"`
}
