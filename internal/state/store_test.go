package state

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyosol/kyosol/internal/solar"
)

func TestStore_SetResultAndLatest(t *testing.T) {
	var s Store

	reading := solar.Snapshot{SolarKW: 2.4, HomeKW: 1.1, HasBattery: true, BatterySOCPercent: 41}
	estimate := solar.Estimate{Direction: solar.Charging, TargetPercent: 100, Known: true}

	before := time.Now()
	s.SetResult(reading, estimate, []byte(`{"pv":2.4}`))

	latest := s.Latest()
	require.True(t, latest.HasReading)
	assert.Equal(t, 2.4, latest.Reading.SolarKW)
	assert.Equal(t, solar.Charging, latest.Estimate.Direction)
	assert.Equal(t, []byte(`{"pv":2.4}`), latest.Raw)
	assert.Nil(t, latest.LastError)
	assert.False(t, latest.LastUpdated.Before(before))
	assert.Zero(t, latest.ConsecutiveFailures)

	// The returned copy must be independent of the stored one.
	latest.Raw[0] = 'X'
	assert.Equal(t, []byte(`{"pv":2.4}`), s.Latest().Raw)
}

func TestStore_SetErrorRetainsPreviousReading(t *testing.T) {
	var s Store

	s.SetResult(solar.Snapshot{SolarKW: 1.0}, solar.Estimate{}, nil)

	pollErr := errors.New("connection refused")
	s.SetError(pollErr)

	latest := s.Latest()
	assert.True(t, latest.HasReading, "previous reading must survive a failed poll")
	assert.Equal(t, 1.0, latest.Reading.SolarKW)
	assert.Equal(t, pollErr, latest.LastError)
	assert.Equal(t, 1, latest.ConsecutiveFailures)

	s.SetError(pollErr)
	assert.Equal(t, 2, s.Latest().ConsecutiveFailures)
}

func TestStore_ErrorClearedOnSuccess(t *testing.T) {
	var s Store

	s.SetError(errors.New("boom"))
	s.SetResult(solar.Snapshot{}, solar.Estimate{}, nil)

	latest := s.Latest()
	assert.Nil(t, latest.LastError)
	assert.Zero(t, latest.ConsecutiveFailures)
}

func TestLatest_IsOffline(t *testing.T) {
	assert.False(t, Latest{ConsecutiveFailures: 0}.IsOffline())
	assert.False(t, Latest{ConsecutiveFailures: 1}.IsOffline())
	assert.True(t, Latest{ConsecutiveFailures: 2}.IsOffline())
	assert.True(t, Latest{ConsecutiveFailures: 7}.IsOffline())
}
