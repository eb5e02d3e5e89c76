package chart

import "math"

// Radar geometry constants.
const (
	RingCount    = 10
	RadarScale   = 5.0 // value that reaches the outer ring
	LabelOffset  = 20.0
	MarkerRadius = 4.0

	radiusFactor = 0.6
)

// Degenerate-geometry reasons reported by the layouts.
const (
	DegenerateNone          = ""
	DegenerateNoCategories  = "no_categories"
	DegenerateCanvas        = "empty_canvas"
	DegenerateNonFinite     = "non_finite_value"
	DegenerateZeroMagnitude = "zero_magnitude"
	DegenerateZeroDivisor   = "zero_denominator"
)

// RadarEntry is one category on the radar with its value on the 0..RadarScale axis.
type RadarEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// RadarPoint is one polygon vertex in polar form around the center.
type RadarPoint struct {
	Angle    float64 `json:"angle"`
	Distance float64 `json:"distance"`
}

// RadarLayout is the full geometry of a skills radar.
type RadarLayout struct {
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Center    Point        `json:"center"`
	MaxRadius float64      `json:"max_radius"`
	Rings     []Circle     `json:"rings"`
	Axes      []Line       `json:"axes"`
	Labels    []Text       `json:"labels"`
	Vertices  []RadarPoint `json:"vertices"`
	Polygon   *Polygon     `json:"polygon,omitempty"`
	Markers   []Circle     `json:"markers"`

	// Degenerate names why the chart is empty or partially empty, if it is.
	Degenerate string `json:"degenerate,omitempty"`
}

// Radar lays out entries on a width x height canvas. Index 0 sits at the top
// and the following categories proceed clockwise. Values are not clamped: a
// value above RadarScale lands outside the outer ring.
func Radar(entries []RadarEntry, width, height float64) RadarLayout {
	l := RadarLayout{
		Width:    sanitizeLength(width),
		Height:   sanitizeLength(height),
		Rings:    make([]Circle, 0, RingCount),
		Axes:     make([]Line, 0, len(entries)),
		Labels:   make([]Text, 0, len(entries)),
		Vertices: make([]RadarPoint, 0, len(entries)),
		Markers:  make([]Circle, 0, len(entries)),
	}
	l.Center = Point{X: l.Width / 2, Y: l.Height / 2}
	l.MaxRadius = radiusFactor * math.Min(l.Width, l.Height) / 2
	if l.MaxRadius == 0 {
		l.Degenerate = DegenerateCanvas
	}

	for i := 1; i <= RingCount; i++ {
		l.Rings = append(l.Rings, Circle{
			CX:    l.Center.X,
			CY:    l.Center.Y,
			R:     l.MaxRadius * float64(i) / RingCount,
			Class: "grid-line",
		})
	}

	n := len(entries)
	if n == 0 {
		if l.Degenerate == DegenerateNone {
			l.Degenerate = DegenerateNoCategories
		}
		return l
	}

	slice := 2 * math.Pi / float64(n)
	unit := l.MaxRadius / RadarScale
	labelRadius := l.MaxRadius + LabelOffset
	points := make([]Point, 0, n)

	for i, e := range entries {
		angle := float64(i)*slice - math.Pi/2
		cos, sin := math.Cos(angle), math.Sin(angle)

		l.Axes = append(l.Axes, Line{
			X1:    l.Center.X,
			Y1:    l.Center.Y,
			X2:    l.Center.X + l.MaxRadius*cos,
			Y2:    l.Center.Y + l.MaxRadius*sin,
			Class: "grid-line",
		})
		l.Labels = append(l.Labels, Text{
			X:        l.Center.X + labelRadius*cos,
			Y:        l.Center.Y + labelRadius*sin,
			Content:  e.Label,
			Anchor:   "middle",
			Baseline: "middle",
			Class:    "axis-label",
		})

		value := e.Value
		if math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
			l.Degenerate = DegenerateNonFinite
		}
		distance := value * unit
		l.Vertices = append(l.Vertices, RadarPoint{Angle: angle, Distance: distance})

		p := Point{X: l.Center.X + distance*cos, Y: l.Center.Y + distance*sin}
		points = append(points, p)
		l.Markers = append(l.Markers, Circle{CX: p.X, CY: p.Y, R: MarkerRadius, Class: "skill-point"})
	}

	l.Polygon = &Polygon{Points: points, Class: "skill-polygon"}
	return l
}

// Drawing flattens the layout into paint order: rings, each axis followed by
// its label, the polygon, then the markers.
func (l RadarLayout) Drawing() Drawing {
	shapes := make([]Shape, 0, len(l.Rings)+len(l.Axes)+len(l.Labels)+len(l.Markers)+1)
	for _, c := range l.Rings {
		shapes = append(shapes, c)
	}
	for i := range l.Axes {
		shapes = append(shapes, l.Axes[i])
		if i < len(l.Labels) {
			shapes = append(shapes, l.Labels[i])
		}
	}
	if l.Polygon != nil {
		shapes = append(shapes, *l.Polygon)
	}
	for _, m := range l.Markers {
		shapes = append(shapes, m)
	}
	return Drawing{Width: l.Width, Height: l.Height, Shapes: shapes}
}

// sanitizeLength maps negative and non-finite canvas lengths to zero.
func sanitizeLength(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
