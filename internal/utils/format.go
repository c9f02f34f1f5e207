package utils

import (
	"fmt"
	"math"
	"strconv"
)

// FormatCount renders a person count with thousands separators, rounded to
// whole persons.
func FormatCount(v float64) string {
	n := int64(math.Round(v))
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) > 3 {
		var out []byte
		pre := len(s) % 3
		if pre > 0 {
			out = append(out, s[:pre]...)
		}
		for i := pre; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		s = "-" + s
	}
	return s
}

// FormatPercent renders a fraction as a percentage with one decimal place.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatDay renders a day offset without floating-point noise, keeping one
// decimal only for fractional days.
func FormatDay(day float64) string {
	if day == math.Trunc(day) && math.Abs(day) < 1e15 {
		return strconv.FormatInt(int64(day), 10)
	}
	return strconv.FormatFloat(day, 'f', 1, 64)
}
