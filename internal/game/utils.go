package game

import (
	"fmt"
	"time"
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// fraction is where x falls along a bar starting at x0 with width w, in [0,1].
func fraction(x, x0, w int) float64 {
	if w <= 0 {
		return 0
	}
	return clamp01(float64(x-x0) / float64(w))
}
