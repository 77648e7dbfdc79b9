package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatKW(t *testing.T) {
	assert.Equal(t, "2.4 kW", FormatKW(2.4))
	assert.Equal(t, "1.5 kW", FormatKW(-1.5), "sign is carried by the label, not the number")
	assert.Equal(t, "0.0 kW", FormatKW(0))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "now"},
		{-time.Minute, "now"},
		{30 * time.Second, "<1m"},
		{45 * time.Minute, "45m"},
		{time.Hour + 5*time.Minute, "1h05m"},
		{3*time.Hour + 30*time.Minute, "3h30m"},
		{13*time.Hour + 55*time.Minute, "~14h"},
		{51163 * time.Second, "~14h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.d), "%v", tt.d)
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "██████████", Bar(100, 10))
	assert.Equal(t, "░░░░░░░░░░", Bar(0, 10))
	assert.Equal(t, "████░░░░░░", Bar(41, 10))
	assert.Equal(t, "█████░░░░░", Bar(50, 10))

	assert.Equal(t, "██████████", Bar(140, 10), "clamped above")
	assert.Equal(t, "░░░░░░░░░░", Bar(-5, 10), "clamped below")
	assert.Equal(t, "", Bar(50, 0))
}

func TestWeatherGlyph(t *testing.T) {
	assert.Equal(t, "☀", weatherGlyph("sunny"))
	assert.Equal(t, "⛅", weatherGlyph("partly_cloudy"))
	assert.Equal(t, "☁", weatherGlyph("cloudy"))
	assert.Equal(t, "☂", weatherGlyph("rain"))
	assert.Equal(t, "", weatherGlyph("mystery"))
}
