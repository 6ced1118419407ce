package overlay

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// SVG serialises rendered groups into a standalone SVG document of the given size.
func SVG(groups []Group, width, height float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s">`, num(width), num(height))
	for _, g := range groups {
		fmt.Fprintf(&b, `<g id="%s" opacity="%s">`, html.EscapeString(g.ID), num(g.Opacity))
		for _, l := range g.Lines {
			fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"`,
				num(l.X1), num(l.Y1), num(l.X2), num(l.Y2), l.Stroke, num(l.Width))
			if l.Dash != "" {
				fmt.Fprintf(&b, ` stroke-dasharray="%s"`, l.Dash)
			}
			b.WriteString("/>")
		}
		for _, pl := range g.Polylines {
			pts := make([]string, len(pl.Points))
			for i, p := range pl.Points {
				pts[i] = num(p.X) + "," + num(p.Y)
			}
			fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="%s"/>`,
				strings.Join(pts, " "), pl.Stroke, num(pl.Width))
		}
		for _, t := range g.Texts {
			fmt.Fprintf(&b, `<text x="%s" y="%s" fill="%s" font-size="%d"`, num(t.X), num(t.Y), t.Fill, t.Size)
			if t.Bold {
				b.WriteString(` font-weight="bold"`)
			}
			if t.Anchor != "" {
				fmt.Fprintf(&b, ` text-anchor="%s"`, t.Anchor)
			}
			fmt.Fprintf(&b, `>%s</text>`, html.EscapeString(t.Body))
		}
		for _, c := range g.Circles {
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s" stroke="%s"/>`,
				num(c.CX), num(c.CY), num(c.R), c.Fill, c.Stroke)
		}
		b.WriteString("</g>")
	}
	b.WriteString("</svg>")
	return b.String()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
