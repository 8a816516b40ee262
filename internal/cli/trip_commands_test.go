package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mileage-logbook/internal/errors"
)

func TestSetupAndOdometerCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("odometer")
	assert.Equal(t, "No odometer reading yet. Run 'lb setup KM' first.\n", out)

	out = h.mustRun("setup", "10000")
	assert.Equal(t, "Odometer set to 10000 km\n", out)

	out = h.mustRun("odometer")
	assert.Equal(t, "Odometer: 10000 km\n", out)

	out = h.mustRun("odometer", "10250")
	assert.Equal(t, "Odometer updated from 10000 km to 10250 km\n", out)

	t.Run("rejects malformed readings", func(t *testing.T) {
		for _, raw := range []string{"-5", "12.5", "abc", ""} {
			_, err := h.run("setup", "--", raw)
			require.Error(t, err, raw)
			assert.ErrorIs(t, err, apperrors.ErrInvalidOdometer, raw)
		}
		assert.Equal(t, "Odometer: 10250 km\n", h.mustRun("odometer"))
	})

	t.Run("requires exactly one argument", func(t *testing.T) {
		_, err := h.run("setup")
		assert.Error(t, err)
		_, err = h.run("odometer", "1", "2")
		assert.Error(t, err)
	})
}

func TestStartAndEndCommands(t *testing.T) {
	h := newHarness(t)

	t.Run("start needs a baseline", func(t *testing.T) {
		_, err := h.run("start")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), "lb setup KM")
	})

	h.mustRun("setup", "10000")

	out := h.mustRun("start", "--type", "business", "Client", "visit")
	assert.Equal(t, "Started Business trip at 10000 km: Client visit\n", out)

	t.Run("second start is rejected", func(t *testing.T) {
		_, err := h.run("start")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrActiveTripExists)
	})

	t.Run("end at or below the start reading is rejected", func(t *testing.T) {
		_, err := h.run("end", "10000")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrEndBeforeStart)

		_, err = h.run("end", "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidOdometer)
		assert.Empty(t, h.trips())
	})

	h.clock.Advance(45 * time.Minute)
	out = h.mustRun("end", "10070")
	assert.Equal(t, "Ended Business trip: 10000 - 10070 km, 70 km driven\n", out)

	trips := h.trips()
	require.Len(t, trips, 1)
	assert.Equal(t, 70, trips[0].Distance)
	assert.Equal(t, "Client visit", trips[0].Note)
	assert.Equal(t, "Odometer: 10070 km\n", h.mustRun("odometer"))

	t.Run("end without an open trip", func(t *testing.T) {
		_, err := h.run("end", "10100")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNoActiveTrip)
	})

	t.Run("start accepts German type names", func(t *testing.T) {
		out := h.mustRun("start", "-t", "privat")
		assert.Equal(t, "Started Private trip at 10070 km\n", out)
		h.mustRun("cancel")
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := h.run("start", "--type", "commute")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestCancelCommand(t *testing.T) {
	h := newHarness(t)
	h.mustRun("setup", "500")

	_, err := h.run("cancel")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveTrip)

	h.mustRun("start", "--type", "private")
	out := h.mustRun("cancel")
	assert.Equal(t, "Cancelled the Private trip started at 500 km\n", out)

	assert.Empty(t, h.trips())
	assert.Equal(t, "Odometer: 500 km\n", h.mustRun("odometer"))
}

func TestStatusCommand(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, "No odometer reading yet. Run 'lb setup KM' first.\n", h.mustRun("status"))

	h.mustRun("setup", "10000")
	h.drive("business", 70, 45*time.Minute)
	h.drive("private", 20, 15*time.Minute)
	h.mustRun("start", "--type", "business", "Depot")
	h.clock.Advance(90 * time.Minute)

	out := h.mustRun("status")
	assert.Contains(t, out, "Odometer:")
	assert.Contains(t, out, "10090 km")
	assert.Contains(t, out, "Business since")
	assert.Contains(t, out, "(1h 30m) from 10090 km")
	assert.Contains(t, out, "Depot")
	assert.Contains(t, out, "Trips recorded:")
	assert.Contains(t, out, "PERIOD")
	assert.Regexp(t, `All time\s+70 km\s+20 km\s+90 km`, out)
}
