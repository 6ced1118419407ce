// Package overlay implements the chart annotation layer: pixel/domain mapping,
// magnet snapping, multi-click drawing state and vector rendering.
package overlay

// Point is a chart location in the time/price domain. Time is unix seconds.
type Point struct {
	Time  int64   `json:"time"`
	Price float64 `json:"price"`
}

// Pixel is a chart location in pixel space, origin top-left.
type Pixel struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Drawing is a user annotation. Once Complete it is never mutated.
type Drawing struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"`
	Points   []Point `json:"points"`
	Complete bool    `json:"isComplete"`
}

func (d Drawing) clone() Drawing {
	d.Points = append([]Point(nil), d.Points...)
	return d
}
