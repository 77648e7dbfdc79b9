package solar

import (
	"time"

	"github.com/kyosol/kyosol/internal/config"
)

// IdleThresholdKW is the flow magnitude below which the battery is treated as
// idle. Estimating against a near-zero rate produces absurd multi-day numbers,
// and the portal jitters a few tens of watts around zero at rest.
const IdleThresholdKW = 0.05

// Direction classifies the battery flow for an estimate.
type Direction int

const (
	Idle Direction = iota
	Charging
	Discharging
)

func (d Direction) String() string {
	switch d {
	case Charging:
		return "charging"
	case Discharging:
		return "discharging"
	default:
		return "idle"
	}
}

// Estimate is the derived time-to-target for the current battery flow.
// TimeRemaining is only meaningful when Known is true; a zero duration means
// the battery is already at its target.
type Estimate struct {
	Direction     Direction
	TargetPercent float64
	TimeRemaining time.Duration
	Known         bool
}

// BatteryEstimate computes the time until the battery reaches 100% (while
// charging) or drains to the configured reserve (while discharging). Derived
// fresh from each snapshot; never cached.
func BatteryEstimate(snap Snapshot, battery config.Battery) Estimate {
	if !snap.HasBattery {
		return Estimate{Direction: Idle}
	}

	kw := snap.BatteryKW
	soc := snap.BatterySOCPercent

	switch {
	case kw > IdleThresholdKW:
		est := Estimate{Direction: Charging, TargetPercent: 100, Known: true}
		if soc < 100 {
			remainingKWH := battery.CapacityKWH * (100 - soc) / 100
			est.TimeRemaining = hoursToDuration(remainingKWH / kw)
		}
		return est

	case kw < -IdleThresholdKW:
		est := Estimate{Direction: Discharging, TargetPercent: battery.ReservePercent, Known: true}
		if soc > battery.ReservePercent {
			remainingKWH := battery.CapacityKWH * (soc - battery.ReservePercent) / 100
			est.TimeRemaining = hoursToDuration(remainingKWH / -kw)
		}
		return est

	default:
		return Estimate{Direction: Idle}
	}
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
