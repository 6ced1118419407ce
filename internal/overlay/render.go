package overlay

import (
	"math"
	"strconv"
	"strings"
)

const (
	colorPrimary = "#2962ff"
	colorGuide   = "#787b86"
	ghostOpacity = 0.5
	fibExtension = 200
	markerRadius = 4
	labelOffset  = 10
)

// FibLevels are the retracement ratios drawn between the first and last point.
var FibLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}

// Line is a straight segment.
type Line struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Stroke string  `json:"stroke"`
	Width  float64 `json:"width"`
	Dash   string  `json:"dash,omitempty"`
}

// Polyline connects points in order.
type Polyline struct {
	Points []Pixel `json:"points"`
	Stroke string  `json:"stroke"`
	Width  float64 `json:"width"`
}

// Circle is a vertex marker.
type Circle struct {
	CX     float64 `json:"cx"`
	CY     float64 `json:"cy"`
	R      float64 `json:"r"`
	Fill   string  `json:"fill"`
	Stroke string  `json:"stroke"`
}

// Text is a label.
type Text struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Body   string  `json:"body"`
	Fill   string  `json:"fill"`
	Size   int     `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Anchor string  `json:"anchor,omitempty"`
}

// Group is the rendered form of one drawing.
type Group struct {
	ID        string     `json:"id"`
	Opacity   float64    `json:"opacity"`
	Lines     []Line     `json:"lines,omitempty"`
	Polylines []Polyline `json:"polylines,omitempty"`
	Texts     []Text     `json:"texts,omitempty"`
	Circles   []Circle   `json:"circles,omitempty"`
}

// Render maps d through m and builds its vector form. It reports false when
// none of the drawing's points can be placed on the chart. Ghost drawings are
// rendered at reduced opacity.
func Render(m *Mapper, d Drawing, ghost bool) (Group, bool) {
	var px []Pixel
	for _, pt := range d.Points {
		if p, ok := m.ToPixels(pt); ok {
			px = append(px, p)
		}
	}
	if len(px) < 1 {
		return Group{}, false
	}

	g := Group{ID: d.ID, Opacity: 1}
	if ghost {
		g.Opacity = ghostOpacity
	}

	switch {
	case isRetracement(d.Type) && len(px) >= 2:
		renderRetracement(&g, px[0], px[len(px)-1])
	default:
		g.Polylines = append(g.Polylines, Polyline{Points: px, Stroke: colorPrimary, Width: 2})
		if isImpulseWave(d.Type) {
			for i, p := range px {
				g.Texts = append(g.Texts, Text{
					X: p.X, Y: p.Y - labelOffset, Body: strconv.Itoa(i),
					Fill: colorPrimary, Size: 12, Bold: true, Anchor: "middle",
				})
			}
		}
	}

	for _, p := range px {
		g.Circles = append(g.Circles, Circle{CX: p.X, CY: p.Y, R: markerRadius, Fill: "white", Stroke: colorPrimary})
	}
	return g, true
}

func renderRetracement(g *Group, p1, p2 Pixel) {
	g.Lines = append(g.Lines, Line{X1: p1.X, Y1: p1.Y, X2: p2.X, Y2: p2.Y, Stroke: colorGuide, Width: 1, Dash: "4 4"})

	dy := p2.Y - p1.Y
	startX := math.Min(p1.X, p2.X)
	width := math.Abs(p2.X-p1.X) + fibExtension
	for _, lvl := range FibLevels {
		y := p1.Y + dy*lvl
		g.Lines = append(g.Lines, Line{X1: startX, Y1: y, X2: startX + width, Y2: y, Stroke: colorPrimary, Width: 1})
		g.Texts = append(g.Texts, Text{
			X: startX, Y: y - 2, Body: strconv.FormatFloat(lvl, 'f', -1, 64),
			Fill: colorPrimary, Size: 10,
		})
	}
}

func isRetracement(tool string) bool { return strings.Contains(tool, "Fib") }

func isImpulseWave(tool string) bool { return strings.Contains(tool, "Elliott") }
