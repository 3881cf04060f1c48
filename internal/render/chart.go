package render

import (
	"strconv"
	"strings"

	"upbit-trade-dashboard/internal/analytics"
)

// Polyline scales points into a width x height box and returns them in the
// SVG points attribute format. Points are spaced evenly in input order; a
// flat series is drawn through the middle.
func Polyline(points []analytics.Point, width, height float64) string {
	if len(points) == 0 {
		return ""
	}

	lo, hi := points[0].Value, points[0].Value
	for _, p := range points[1:] {
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}

	step := analytics.SafeDiv(width, float64(len(points)-1))
	coords := make([]string, 0, len(points))
	for i, p := range points {
		y := height / 2
		if hi > lo {
			y = height - analytics.SafeDiv(p.Value-lo, hi-lo)*height
		}
		coords = append(coords, formatCoord(float64(i)*step)+","+formatCoord(y))
	}
	return strings.Join(coords, " ")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
