// Package chart lays out the dashboard charts as renderer-neutral drawings.
//
// Every layout is a pure function of its inputs: calling it again with the
// same data returns an equal drawing, and nothing from a previous call leaks
// into the next one.
package chart

// Shape is one drawing primitive.
type Shape interface {
	Kind() string
}

// Point is a canvas coordinate; the origin is the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle is a circle primitive.
type Circle struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	R     float64 `json:"r"`
	Class string  `json:"class,omitempty"`
}

// Line is a straight segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Class string  `json:"class,omitempty"`
}

// Text is a text label anchored at (X, Y).
type Text struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Content  string  `json:"content"`
	Anchor   string  `json:"anchor,omitempty"`
	Baseline string  `json:"baseline,omitempty"`
	Class    string  `json:"class,omitempty"`
}

// Polygon is a closed path through Points.
type Polygon struct {
	Points []Point `json:"points"`
	Class  string  `json:"class,omitempty"`
}

// Rect is an axis-aligned rectangle with optional rounded corners.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	RX     float64 `json:"rx,omitempty"`
	RY     float64 `json:"ry,omitempty"`
	Class  string  `json:"class,omitempty"`
}

// Kind implements Shape.
func (Circle) Kind() string { return "circle" }

// Kind implements Shape.
func (Line) Kind() string { return "line" }

// Kind implements Shape.
func (Text) Kind() string { return "text" }

// Kind implements Shape.
func (Polygon) Kind() string { return "polygon" }

// Kind implements Shape.
func (Rect) Kind() string { return "rect" }

// Drawing is an ordered list of primitives on a Width x Height canvas.
// Shapes are painted in order.
type Drawing struct {
	Width  float64
	Height float64
	Shapes []Shape
}
