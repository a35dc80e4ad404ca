// Package bytesize formats byte counts for humans.
package bytesize

import (
	"math"

	"github.com/dustin/go-humanize"
)

// Format renders n using IEC units ("0 B", "10 B", "1.5 MiB").
// Negative values are clamped to zero.
func Format(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Percent returns used/total as a percentage rounded to one decimal place.
// A non-positive total yields 0.
func Percent(used, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(used)/float64(total)*1000) / 10
}
