// Package solar turns raw portal payloads into canonical site readings and
// derives battery charge/discharge time estimates. Everything here is pure:
// no I/O, no hidden state.
package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/kyosol/kyosol/internal/portal"
)

// Snapshot is the canonical measurement record. Power values are kW, signed:
// GridKW negative means import, positive export; BatteryKW positive means
// charging, negative discharging.
type Snapshot struct {
	SolarKW           float64
	GridKW            float64
	BatteryKW         float64
	BatterySOCPercent float64
	HasBattery        bool
	HomeKW            float64
	LifetimeKWH       float64
	CO2SavedKG        float64
	Timestamp         time.Time

	// Display extras carried through from the portal.
	AlertMessage string
	Weather      Weather
}

// Weather carries the display-only conditions block.
type Weather struct {
	Location      string
	Icon          string
	TempC         *float64
	Humidity      *float64
	CloudCover    *float64
	Precipitation *float64
	WindVelocity  *float64
	WindDirection string
}

// CleanPercent returns how much of home consumption is covered by solar plus
// battery discharge, capped at 100. Zero consumption reports 0.
func (s Snapshot) CleanPercent() float64 {
	if s.HomeKW <= 0 {
		return 0
	}
	clean := s.SolarKW
	if s.BatteryKW < 0 {
		clean += -s.BatteryKW
	}
	return math.Min(clean/s.HomeKW*100, 100)
}

// Normalize validates a raw portal snapshot and maps it into the canonical
// Snapshot shape. now is used when the portal clock is absent or unparseable.
func Normalize(raw portal.RawSnapshot, now time.Time) (Snapshot, error) {
	required := []struct {
		name   string
		metric *portal.Metric
	}{
		{"pv", raw.PV},
		{"consumed", raw.Consumed},
		{"purchased", raw.Purchased},
		{"sold", raw.Sold},
		{"gentotal", raw.GenTotal},
	}
	for _, field := range required {
		if !field.metric.Present() {
			return Snapshot{}, &portal.DataError{Field: field.name}
		}
		if !isFinite(field.metric.Float()) {
			return Snapshot{}, &portal.DataError{Field: field.name, Err: fmt.Errorf("non-finite value %v", field.metric.Float())}
		}
	}

	snap := Snapshot{
		SolarKW:     raw.PV.Float(),
		GridKW:      raw.Sold.Float() - raw.Purchased.Float(),
		HomeKW:      raw.Consumed.Float(),
		LifetimeKWH: raw.GenTotal.Float(),
		CO2SavedKG:  raw.ReducedCO2.Float(),
		Timestamp:   now,
	}

	if raw.Battery != nil {
		if !raw.Battery.RemainingRate.Present() {
			return Snapshot{}, &portal.DataError{Field: "battery.remaining_rate"}
		}
		charge := raw.Battery.Charge.Float()
		discharge := raw.Battery.Discharge.Float()
		if !isFinite(charge) || !isFinite(discharge) {
			return Snapshot{}, &portal.DataError{Field: "battery", Err: fmt.Errorf("non-finite flow %v/%v", charge, discharge)}
		}
		snap.HasBattery = true
		snap.BatteryKW = charge - discharge
		snap.BatterySOCPercent = clampPercent(raw.Battery.RemainingRate.Float())
	}

	if raw.Clock != nil && raw.Clock.Now != "" {
		if t, err := time.Parse(time.RFC3339, raw.Clock.Now); err == nil {
			snap.Timestamp = t
		}
	}

	if raw.Status != nil {
		snap.AlertMessage = raw.Status.Message
	}
	if raw.Weather != nil {
		snap.Weather.Location = raw.Weather.ZoneName
		snap.Weather.Icon = raw.Weather.WeatherIcon
	}
	if raw.Meteorol != nil {
		snap.Weather.TempC = raw.Meteorol.TempC
		snap.Weather.Humidity = raw.Meteorol.Humidity
		snap.Weather.CloudCover = raw.Meteorol.CloudCover
		snap.Weather.Precipitation = raw.Meteorol.Precipitation
		snap.Weather.WindVelocity = raw.Meteorol.WindVelocity
		snap.Weather.WindDirection = raw.Meteorol.WindDirection
	}

	return snap, nil
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 100)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
