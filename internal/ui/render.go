// Package ui renders the energy dashboard, either once to stdout or
// continuously through the watch view.
package ui

import (
	"fmt"
	"strings"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/solar"
)

const (
	batteryBarSegments = 10
	cleanBarSegments   = 10
)

// Render builds the full single-shot dashboard for one reading.
func Render(reading solar.Snapshot, est solar.Estimate, battery config.Battery, location string) string {
	styles := DefaultTheme().Styles()

	var b strings.Builder

	title := location
	if title == "" {
		title = "Solar"
	}
	b.WriteString(styles.Accent.Bold(true).Render(title))
	b.WriteString(styles.FaintText.Render("  " + reading.Timestamp.Format("2006-01-02 15:04")))
	b.WriteString("\n\n")

	solarGlyph := "☀"
	if reading.SolarKW <= 0 {
		solarGlyph = "🌙"
	}
	b.WriteString(powerRow(styles, solarGlyph, "Solar", styles.Solar.Render(FormatKW(reading.SolarKW)), ""))
	b.WriteString(powerRow(styles, "⌂", "Home", styles.Text.Render(FormatKW(reading.HomeKW)), ""))
	b.WriteString(powerRow(styles, "⚡", "Grid", styles.Grid.Render(FormatKW(reading.GridKW)), gridNote(styles, reading.GridKW)))
	if reading.HasBattery {
		b.WriteString(batteryRow(styles, reading, est))
	}
	b.WriteString("\n")

	clean := reading.CleanPercent()
	b.WriteString(styles.Label.Render("Clean"))
	b.WriteString(styles.LevelStyle(clean).Render(Bar(clean, cleanBarSegments)))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf(" %.0f%% of home use", clean)))
	b.WriteString("\n")

	if line := weatherLine(styles, reading.Weather); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(styles.Label.Render("Lifetime"))
	b.WriteString(styles.Text.Render(FormatKWH(reading.LifetimeKWH)))
	b.WriteString(styles.FaintText.Render(fmt.Sprintf("  CO₂ saved %.1f kg", reading.CO2SavedKG)))
	b.WriteString("\n")

	if reading.HasBattery {
		b.WriteString(styles.Label.Render("Capacity"))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("%s, reserve %.0f%% (%s usable)",
			FormatKWH(battery.CapacityKWH), battery.ReservePercent, FormatKWH(battery.UsableKWH()))))
		b.WriteString("\n")
	}

	if reading.AlertMessage != "" {
		b.WriteString("\n")
		b.WriteString(styles.Danger.Render("! " + reading.AlertMessage))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func powerRow(styles Styles, glyph, label, value, note string) string {
	row := styles.Text.Render(glyph) + " " + styles.Label.Render(label) + value
	if note != "" {
		row += "  " + note
	}
	return row + "\n"
}

func gridNote(styles Styles, gridKW float64) string {
	switch {
	case gridKW > 0:
		return styles.Success.Render("→ exporting")
	case gridKW < 0:
		return styles.Danger.Render("← importing")
	default:
		return ""
	}
}

func batteryRow(styles Styles, reading solar.Snapshot, est solar.Estimate) string {
	soc := reading.BatterySOCPercent
	bar := styles.LevelStyle(soc).Render(Bar(soc, batteryBarSegments))
	value := bar + styles.Text.Render(fmt.Sprintf(" %.0f%%", soc))

	note := ""
	switch est.Direction {
	case solar.Charging:
		note = styles.Success.Render(fmt.Sprintf("charging %s", FormatKW(reading.BatteryKW)))
		if est.Known {
			note += styles.MutedText.Render(fmt.Sprintf(" (%s to %.0f%%)", FormatDuration(est.TimeRemaining), est.TargetPercent))
		}
	case solar.Discharging:
		note = styles.Warning.Render(fmt.Sprintf("discharging %s", FormatKW(reading.BatteryKW)))
		if est.Known {
			note += styles.MutedText.Render(fmt.Sprintf(" (%s to %.0f%%)", FormatDuration(est.TimeRemaining), est.TargetPercent))
		}
	default:
		note = styles.FaintText.Render("idle")
	}

	return powerRow(styles, "🔋", "Battery", value, note)
}

// weatherLine keeps the line short: only conditions worth mentioning appear.
// Temperature always shows; humidity only outside the comfortable 30-60 band,
// clouds above 5%, any precipitation, wind above 5 m/s.
func weatherLine(styles Styles, w solar.Weather) string {
	var parts []string
	if glyph := weatherGlyph(w.Icon); glyph != "" {
		parts = append(parts, glyph)
	}
	if w.Location != "" {
		parts = append(parts, w.Location)
	}
	if w.TempC != nil {
		parts = append(parts, fmt.Sprintf("%.1f°C", *w.TempC))
	}
	if w.Humidity != nil && (*w.Humidity < 30 || *w.Humidity > 60) {
		parts = append(parts, fmt.Sprintf("%.0f%% humidity", *w.Humidity))
	}
	if w.CloudCover != nil && *w.CloudCover > 5 {
		parts = append(parts, fmt.Sprintf("%.0f%% clouds", *w.CloudCover))
	}
	if w.Precipitation != nil && *w.Precipitation > 0 {
		parts = append(parts, fmt.Sprintf("%.1f mm rain", *w.Precipitation))
	}
	if w.WindVelocity != nil && *w.WindVelocity > 5 {
		wind := fmt.Sprintf("wind %.1f m/s", *w.WindVelocity)
		if w.WindDirection != "" {
			wind = fmt.Sprintf("wind %s %.1f m/s", w.WindDirection, *w.WindVelocity)
		}
		parts = append(parts, wind)
	}
	if len(parts) == 0 {
		return ""
	}
	return styles.Label.Render("Weather") + styles.MutedText.Render(strings.Join(parts, "  "))
}
