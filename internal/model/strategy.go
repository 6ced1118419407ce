package model

// SavedStrategy is one entry of the strategy library.
type SavedStrategy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"` // unix milliseconds
}
