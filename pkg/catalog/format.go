package catalog

import (
	"fmt"
	"math"

	sexa "github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"
)

// FormatRA renders right ascension in degrees as hours, minutes, seconds.
func FormatRA(deg float64) string {
	return fmt.Sprintf("%.1d", sexa.FmtRA(unit.RAFromDeg(deg)))
}

// FormatDec renders declination in degrees as signed sexagesimal degrees.
func FormatDec(deg float64) string {
	return fmt.Sprintf("%+.0d", sexa.FmtAngle(unit.AngleFromDeg(deg)))
}

// FormatMag renders a magnitude, or "-" when unknown.
func FormatMag(m float64) string {
	if math.IsNaN(m) {
		return "-"
	}
	return fmt.Sprintf("%.2f", m)
}
