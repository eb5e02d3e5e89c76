package chart

import (
	"math"
	"strconv"
)

// Bar geometry constants.
const (
	BarCanvasHeight = 120.0
	BarHeight       = 30.0
	BarSpacing      = 20.0
	BarLabelGap     = 10.0
	BarLabelSpace   = 100.0 // horizontal room kept free for the labels
	BarCornerRadius = 4.0

	labelDecimals = 2
	ratioDecimals = 1

	// RatioUndefined is shown when nothing was received.
	RatioUndefined = "undefined"

	arrowGiven    = "↑"
	arrowReceived = "↓"
)

// AuditBalance is the audit points a user gave and received, in the base unit.
type AuditBalance struct {
	Given    float64 `json:"given"`
	Received float64 `json:"received"`
}

// BarLayout is the geometry of the given/received comparison.
type BarLayout struct {
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Scale         float64 `json:"scale"`
	GivenBar      Rect    `json:"given_bar"`
	ReceivedBar   Rect    `json:"received_bar"`
	GivenText     Text    `json:"given_text"`
	ReceivedText  Text    `json:"received_text"`
	GivenLabel    string  `json:"given_label"`
	ReceivedLabel string  `json:"received_label"`
	Ratio         string  `json:"ratio"`
	RatioDefined  bool    `json:"ratio_defined"`

	// Degenerate names why the bars collapsed, if they did.
	Degenerate string `json:"degenerate,omitempty"`
}

// Bars lays out two horizontal bars sharing a zero origin on a canvas of the
// given width. The larger value spans width-BarLabelSpace pixels.
func Bars(b AuditBalance, width float64) BarLayout {
	l := BarLayout{
		Width:  sanitizeLength(width),
		Height: BarCanvasHeight,
	}
	given, okGiven := sanitizeMagnitude(b.Given)
	received, okReceived := sanitizeMagnitude(b.Received)
	if !okGiven || !okReceived {
		l.Degenerate = DegenerateNonFinite
	}

	maxValue := math.Max(given, received)
	usable := math.Max(l.Width-BarLabelSpace, 0)
	switch {
	case maxValue == 0:
		if l.Degenerate == DegenerateNone {
			l.Degenerate = DegenerateZeroMagnitude
		}
	case usable == 0:
		if l.Degenerate == DegenerateNone {
			l.Degenerate = DegenerateCanvas
		}
	default:
		l.Scale = usable / maxValue
	}

	startY := (BarCanvasHeight - (2*BarHeight + BarSpacing)) / 2
	givenWidth := given * l.Scale
	receivedWidth := received * l.Scale
	receivedY := startY + BarHeight + BarSpacing

	l.GivenLabel = FormatMagnitude(given, labelDecimals)
	l.ReceivedLabel = FormatMagnitude(received, labelDecimals)

	l.GivenBar = Rect{
		X: 0, Y: startY, Width: givenWidth, Height: BarHeight,
		RX: BarCornerRadius, RY: BarCornerRadius, Class: "done-bar",
	}
	l.ReceivedBar = Rect{
		X: 0, Y: receivedY, Width: receivedWidth, Height: BarHeight,
		RX: BarCornerRadius, RY: BarCornerRadius, Class: "received-bar",
	}
	l.GivenText = Text{
		X:        givenWidth + BarLabelGap,
		Y:        startY + BarHeight/2,
		Content:  l.GivenLabel + " " + arrowGiven,
		Baseline: "middle",
		Class:    "bar-label",
	}
	l.ReceivedText = Text{
		X:        receivedWidth + BarLabelGap,
		Y:        receivedY + BarHeight/2,
		Content:  l.ReceivedLabel + " " + arrowReceived,
		Baseline: "middle",
		Class:    "bar-label",
	}

	l.Ratio, l.RatioDefined = Ratio(given, received)
	if !l.RatioDefined && l.Degenerate == DegenerateNone {
		l.Degenerate = DegenerateZeroDivisor
	}
	return l
}

// Ratio formats given/received with one decimal. It reports false and
// returns RatioUndefined when the quotient is not a finite number.
func Ratio(given, received float64) (string, bool) {
	if received == 0 {
		return RatioUndefined, false
	}
	r := given / received
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return RatioUndefined, false
	}
	return strconv.FormatFloat(r, 'f', ratioDecimals, 64), true
}

// Drawing flattens the layout: both bars, then both labels.
func (l BarLayout) Drawing() Drawing {
	return Drawing{
		Width:  l.Width,
		Height: l.Height,
		Shapes: []Shape{l.GivenBar, l.ReceivedBar, l.GivenText, l.ReceivedText},
	}
}

// sanitizeMagnitude maps negative and non-finite values to zero and reports
// whether the input was finite.
func sanitizeMagnitude(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v < 0 {
		return 0, true
	}
	return v, true
}
