// Package svg renders chart drawings as standalone SVG documents.
package svg

import (
	"html"
	"strconv"
	"strings"

	"github.com/The-Tifo/Graphql/internal/domain/chart"
)

const namespace = "http://www.w3.org/2000/svg"

// Render writes d as an <svg> element. Shapes are emitted in drawing order
// and unknown shapes are skipped.
func Render(d chart.Drawing) string {
	var b strings.Builder
	b.Grow(256 + 96*len(d.Shapes))

	w, h := num(d.Width), num(d.Height)
	b.WriteString(`<svg xmlns="` + namespace + `" width="` + w + `" height="` + h +
		`" viewBox="0 0 ` + w + ` ` + h + `">`)
	for _, s := range d.Shapes {
		writeShape(&b, s)
	}
	b.WriteString(`</svg>`)
	return b.String()
}

func writeShape(b *strings.Builder, s chart.Shape) {
	switch v := s.(type) {
	case chart.Circle:
		b.WriteString(`<circle cx="` + num(v.CX) + `" cy="` + num(v.CY) + `" r="` + num(v.R) + `"`)
		class(b, v.Class)
		b.WriteString(`/>`)
	case chart.Line:
		b.WriteString(`<line x1="` + num(v.X1) + `" y1="` + num(v.Y1) +
			`" x2="` + num(v.X2) + `" y2="` + num(v.Y2) + `"`)
		class(b, v.Class)
		b.WriteString(`/>`)
	case chart.Polygon:
		b.WriteString(`<polygon points="` + points(v.Points) + `"`)
		class(b, v.Class)
		b.WriteString(`/>`)
	case chart.Rect:
		b.WriteString(`<rect x="` + num(v.X) + `" y="` + num(v.Y) +
			`" width="` + num(v.Width) + `" height="` + num(v.Height) + `"`)
		if v.RX != 0 {
			b.WriteString(` rx="` + num(v.RX) + `"`)
		}
		if v.RY != 0 {
			b.WriteString(` ry="` + num(v.RY) + `"`)
		}
		class(b, v.Class)
		b.WriteString(`/>`)
	case chart.Text:
		b.WriteString(`<text x="` + num(v.X) + `" y="` + num(v.Y) + `"`)
		if v.Anchor != "" {
			b.WriteString(` text-anchor="` + html.EscapeString(v.Anchor) + `"`)
		}
		if v.Baseline != "" {
			b.WriteString(` dominant-baseline="` + html.EscapeString(v.Baseline) + `"`)
		}
		class(b, v.Class)
		b.WriteString(`>` + html.EscapeString(v.Content) + `</text>`)
	}
}

func class(b *strings.Builder, c string) {
	if c != "" {
		b.WriteString(` class="` + html.EscapeString(c) + `"`)
	}
}

func points(ps []chart.Point) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

// num prints the shortest decimal that round-trips, rounded to 3 places so
// sin/cos noise does not leak into the markup.
func num(v float64) string {
	r := strconv.FormatFloat(v, 'f', 3, 64)
	r = strings.TrimRight(r, "0")
	r = strings.TrimSuffix(r, ".")
	if r == "-0" || r == "" {
		return "0"
	}
	return r
}
