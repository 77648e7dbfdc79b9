package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kyosol/kyosol/internal/config"
	"github.com/kyosol/kyosol/internal/solar"
	"github.com/kyosol/kyosol/internal/state"
)

func stateLatest(err error, hasReading bool, failures int) state.Latest {
	return state.Latest{
		HasReading:          hasReading,
		LastError:           err,
		ConsecutiveFailures: failures,
	}
}

var testBattery = config.Battery{CapacityKWH: 16.5, ReservePercent: 30}

func chargingReading() solar.Snapshot {
	return solar.Snapshot{
		SolarKW:           2.4,
		GridKW:            0.6,
		BatteryKW:         0.7,
		BatterySOCPercent: 41,
		HasBattery:        true,
		HomeKW:            1.1,
		LifetimeKWH:       10431.5,
		CO2SavedKG:        5123.75,
		Timestamp:         time.Date(2026, 8, 25, 14, 30, 0, 0, time.UTC),
	}
}

func chargingEstimate() solar.Estimate {
	return solar.Estimate{
		Direction:     solar.Charging,
		TargetPercent: 100,
		TimeRemaining: 13*time.Hour + 55*time.Minute,
		Known:         true,
	}
}

func TestRender_ChargingDashboard(t *testing.T) {
	out := Render(chargingReading(), chargingEstimate(), testBattery, "Kyoto Home")

	assert.Contains(t, out, "Kyoto Home")
	assert.Contains(t, out, "2026-08-25 14:30")
	assert.Contains(t, out, "Solar")
	assert.Contains(t, out, "2.4 kW")
	assert.Contains(t, out, "exporting")
	assert.Contains(t, out, "41%")
	assert.Contains(t, out, "charging 0.7 kW")
	assert.Contains(t, out, "(~14h to 100%)")
	assert.Contains(t, out, "10431.5 kWh")
	assert.Contains(t, out, "reserve 30%")
	assert.Contains(t, out, "11.6 kWh usable")
}

func TestRender_DischargingToReserve(t *testing.T) {
	reading := chargingReading()
	reading.GridKW = -1.5
	reading.BatteryKW = -0.9
	est := solar.Estimate{
		Direction:     solar.Discharging,
		TargetPercent: 30,
		TimeRemaining: 2 * time.Hour,
		Known:         true,
	}

	out := Render(reading, est, testBattery, "")

	assert.Contains(t, out, "importing")
	assert.Contains(t, out, "discharging 0.9 kW")
	assert.Contains(t, out, "(2h00m to 30%)")
	assert.NotContains(t, out, "exporting")
}

func TestRender_IdleBatteryHasNoEstimate(t *testing.T) {
	reading := chargingReading()
	reading.BatteryKW = 0.02
	est := solar.Estimate{Direction: solar.Idle}

	out := Render(reading, est, testBattery, "")

	assert.Contains(t, out, "idle")
	assert.NotContains(t, out, "to 100%")
}

func TestRender_NoBattery(t *testing.T) {
	reading := chargingReading()
	reading.HasBattery = false
	est := solar.Estimate{Direction: solar.Idle}

	out := Render(reading, est, testBattery, "")

	assert.NotContains(t, out, "Battery")
	assert.NotContains(t, out, "Capacity")
}

func TestRender_AlertLine(t *testing.T) {
	reading := chargingReading()
	reading.AlertMessage = "inverter fault"

	out := Render(reading, chargingEstimate(), testBattery, "")
	assert.Contains(t, out, "! inverter fault")
}

func TestRender_WeatherLine(t *testing.T) {
	temp, humidity, wind := 28.5, 72.0, 6.1
	reading := chargingReading()
	reading.Weather = solar.Weather{
		Location:      "Kyoto",
		Icon:          "partly_cloudy",
		TempC:         &temp,
		Humidity:      &humidity,
		WindVelocity:  &wind,
		WindDirection: "NE",
	}

	out := Render(reading, chargingEstimate(), testBattery, "")

	assert.Contains(t, out, "Weather")
	assert.Contains(t, out, "28.5°C")
	assert.Contains(t, out, "72% humidity")
	assert.Contains(t, out, "wind NE 6.1 m/s")

	// Unremarkable conditions stay off the line.
	mildHumidity, lightWind := 45.0, 3.0
	reading.Weather.Humidity = &mildHumidity
	reading.Weather.WindVelocity = &lightWind
	calm := Render(reading, chargingEstimate(), testBattery, "")
	assert.Contains(t, calm, "28.5°C")
	assert.NotContains(t, calm, "humidity")
	assert.NotContains(t, calm, "wind")

	// Absent weather omits the whole line.
	reading.Weather = solar.Weather{}
	assert.NotContains(t, Render(reading, chargingEstimate(), testBattery, ""), "Weather")
}

func TestErrorBanner(t *testing.T) {
	styles := DefaultTheme().Styles()

	assert.Empty(t, errorBanner(styles, stateLatest(nil, true, 0)))
	assert.Empty(t, errorBanner(styles, stateLatest(assert.AnError, false, 1)), "no banner without a retained reading")

	one := errorBanner(styles, stateLatest(assert.AnError, true, 1))
	assert.Contains(t, one, "STALE")
	assert.Contains(t, one, "1 failed polls")

	many := errorBanner(styles, stateLatest(assert.AnError, true, 3))
	assert.Contains(t, many, "OFFLINE")
}
