package chart

import (
	"math"
	"strconv"
)

// Unit suffixes for the two display tiers.
const (
	UnitBase      = "KB"
	UnitSecondary = "MB"

	tierThreshold = 1000.0
	xpDecimals    = 1
)

// FormatMagnitude renders a value expressed in the base unit. Values of at
// least 1000 are shown divided by 1000 in the secondary unit with the given
// number of decimals; smaller values are shown as whole base units.
func FormatMagnitude(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	if v >= tierThreshold {
		return strconv.FormatFloat(v/tierThreshold, 'f', decimals, 64) + " " + UnitSecondary
	}
	return strconv.FormatFloat(v, 'f', 0, 64) + " " + UnitBase
}

// FormatXP renders a raw XP amount (in points). A nil amount means no XP.
func FormatXP(amount *float64) string {
	if amount == nil {
		return "0 " + UnitBase
	}
	return FormatMagnitude(*amount/tierThreshold, xpDecimals)
}
