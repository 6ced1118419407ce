package overlay

import "strings"

// Cursor is the tool that selects instead of drawing.
const Cursor = "Cursor"

const (
	ToolTrendLine      = "Trend Line"
	ToolFibRetracement = "Fib Retracement"
	ToolRectangle      = "Rectangle"
	ToolCircle         = "Circle"
	ToolTriangle       = "Triangle"
	ToolElliottWave    = "Elliott Impulse Wave (12345)"
)

const defaultRequiredPoints = 2

var requiredPoints = map[string]int{
	ToolTrendLine:      2,
	ToolFibRetracement: 2,
	ToolRectangle:      2,
	ToolCircle:         2,
	ToolTriangle:       3,
	ToolElliottWave:    5,
}

// RequiredPoints returns how many clicks complete a drawing of the given tool.
func RequiredPoints(tool string) int {
	if n, ok := requiredPoints[tool]; ok {
		return n
	}
	return defaultRequiredPoints
}

// Tool is a drawing tool catalog entry.
type Tool struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Points   int    `json:"points"`
}

// Categories lists the tool drawer tabs in display order.
var Categories = []string{
	"Trend lines", "Gann and Fibonacci", "Patterns", "Prediction", "Geometric shapes", "Annotation",
}

var catalog = []struct{ name, category string }{
	{ToolTrendLine, "Trend lines"},
	{"Ray", "Trend lines"},
	{"Info Line", "Trend lines"},
	{"Extended Line", "Trend lines"},
	{"Horizontal Line", "Trend lines"},
	{"Vertical Line", "Trend lines"},
	{"Cross Line", "Trend lines"},
	{"Parallel Channel", "Trend lines"},

	{ToolFibRetracement, "Gann and Fibonacci"},
	{"Trend-Based Fib Extension", "Gann and Fibonacci"},
	{"Fib Channel", "Gann and Fibonacci"},
	{"Gann Box", "Gann and Fibonacci"},
	{"Gann Square", "Gann and Fibonacci"},

	{ToolElliottWave, "Patterns"},
	{ToolTriangle, "Patterns"},

	{"Brush", "Geometric shapes"},
	{"Highlighter", "Geometric shapes"},
	{ToolRectangle, "Geometric shapes"},
	{ToolCircle, "Geometric shapes"},
	{"Path", "Geometric shapes"},

	{"Text", "Annotation"},
	{"Note", "Annotation"},
	{"Image", "Annotation"},
	{"Callout", "Annotation"},

	{"Long Position", "Prediction"},
	{"Short Position", "Prediction"},
	{"Forecast", "Prediction"},
	{"Price Range", "Prediction"},
}

// Tools returns the full drawing tool catalog.
func Tools() []Tool {
	return FilterTools("", "")
}

// FilterTools returns catalog tools in category (all when empty) whose name
// contains query, case-insensitively.
func FilterTools(category, query string) []Tool {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Tool
	for _, t := range catalog {
		if category != "" && t.category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.name), q) {
			continue
		}
		out = append(out, Tool{Name: t.name, Category: t.category, Points: RequiredPoints(t.name)})
	}
	return out
}

// IsKnownTool reports whether name is the cursor or a catalog tool.
func IsKnownTool(name string) bool {
	if name == Cursor {
		return true
	}
	for _, t := range catalog {
		if t.name == name {
			return true
		}
	}
	return false
}
