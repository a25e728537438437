package chat

import (
	"math"
	"strconv"
)

// formatNumber prints whole values without decimals and everything else with
// one decimal place.
func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
