package ui

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatKW renders a power value with one decimal, dropping the sign: flow
// direction is conveyed by the surrounding label, not the number.
func FormatKW(v float64) string {
	return fmt.Sprintf("%.1f kW", math.Abs(v))
}

// FormatKWH renders an energy value with one decimal.
func FormatKWH(v float64) string {
	return fmt.Sprintf("%.1f kWh", v)
}

// FormatDuration renders a battery estimate in the shortest readable form:
// "45m", "3h05m", and "~14h" once precision stops meaning anything.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "now"
	case d < time.Minute:
		return "<1m"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 10*time.Hour:
		h := int(d.Hours())
		m := int(d.Minutes()) - h*60
		return fmt.Sprintf("%dh%02dm", h, m)
	default:
		return fmt.Sprintf("~%dh", int(math.Round(d.Hours())))
	}
}

// Bar renders percent as a fixed-width block gauge.
func Bar(percent float64, segments int) string {
	if segments <= 0 {
		return ""
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(math.Round(percent / 100 * float64(segments)))
	return strings.Repeat("█", filled) + strings.Repeat("░", segments-filled)
}

// weatherGlyph maps portal weather icon names to a terminal glyph.
func weatherGlyph(icon string) string {
	switch {
	case strings.Contains(icon, "thunder"):
		return "⛈"
	case strings.Contains(icon, "snow"):
		return "☃"
	case strings.Contains(icon, "rain"):
		return "☂"
	case strings.Contains(icon, "partly"):
		return "⛅"
	case strings.Contains(icon, "cloud"):
		return "☁"
	case strings.Contains(icon, "sun"), strings.Contains(icon, "clear"), strings.Contains(icon, "fine"):
		return "☀"
	default:
		return ""
	}
}
