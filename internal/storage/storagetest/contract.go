// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/storage"
)

// RunContract exercises a store built fresh by newStore for every subtest.
func RunContract(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing keys are absent, not errors", func(t *testing.T) {
		s := newStore(t)

		km, ok, err := s.GetInt(ctx, storage.KeyCurrentKm)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, km)

		var trips []domain.Trip
		ok, err = s.GetJSON(ctx, storage.KeyTrips, &trips)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, trips)
	})

	t.Run("integers round-trip", func(t *testing.T) {
		s := newStore(t)

		require.NoError(t, s.SetInt(ctx, storage.KeyCurrentKm, 10000))
		require.NoError(t, s.SetInt(ctx, storage.KeyCurrentKm, 10050))

		km, ok, err := s.GetInt(ctx, storage.KeyCurrentKm)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 10050, km)
	})

	t.Run("trip collections round-trip with order", func(t *testing.T) {
		s := newStore(t)
		start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
		trips := []domain.Trip{
			{ID: 2, Type: domain.TripTypePrivate, StartKm: 10050, EndKm: 10070, Distance: 20, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour), Note: `say "hi", then leave`},
			{ID: 1, Type: domain.TripTypeBusiness, StartKm: 10000, EndKm: 10050, Distance: 50, StartTime: start, EndTime: start.Add(time.Hour)},
		}

		require.NoError(t, s.SetJSON(ctx, storage.KeyTrips, trips))

		var loaded []domain.Trip
		ok, err := s.GetJSON(ctx, storage.KeyTrips, &loaded)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, loaded, 2)
		for i := range trips {
			assert.Equal(t, trips[i].ID, loaded[i].ID)
			assert.Equal(t, trips[i].Type, loaded[i].Type)
			assert.Equal(t, trips[i].StartKm, loaded[i].StartKm)
			assert.Equal(t, trips[i].EndKm, loaded[i].EndKm)
			assert.Equal(t, trips[i].Distance, loaded[i].Distance)
			assert.True(t, trips[i].StartTime.Equal(loaded[i].StartTime))
			assert.True(t, trips[i].EndTime.Equal(loaded[i].EndTime))
			assert.Equal(t, trips[i].Note, loaded[i].Note)
		}
	})

	t.Run("remove deletes only the named key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetInt(ctx, storage.KeyCurrentKm, 5))
		require.NoError(t, s.SetJSON(ctx, storage.KeyActiveTrip, domain.ActiveTrip{Type: domain.TripTypeBusiness, StartKm: 5}))

		require.NoError(t, s.Remove(ctx, storage.KeyActiveTrip))
		require.NoError(t, s.Remove(ctx, storage.KeyActiveTrip), "removing twice is not an error")

		var active domain.ActiveTrip
		ok, err := s.GetJSON(ctx, storage.KeyActiveTrip, &active)
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = s.GetInt(ctx, storage.KeyCurrentKm)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("clear deletes every key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetInt(ctx, storage.KeyCurrentKm, 5))
		require.NoError(t, s.SetJSON(ctx, storage.KeyStartDate, "2025-01-01"))

		require.NoError(t, s.Clear(ctx))

		for _, key := range []string{storage.KeyCurrentKm, storage.KeyStartDate} {
			var v any
			ok, err := s.GetJSON(ctx, key, &v)
			require.NoError(t, err)
			assert.False(t, ok, key)
		}
	})

	t.Run("wrong shape surfaces a storage error", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetJSON(ctx, storage.KeyCurrentKm, "not a number"))

		_, _, err := s.GetInt(ctx, storage.KeyCurrentKm)
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	})

	t.Run("unencodable values surface a storage error", func(t *testing.T) {
		s := newStore(t)

		err := s.SetJSON(ctx, storage.KeyTrips, make(chan int))
		require.Error(t, err)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
	})
}
