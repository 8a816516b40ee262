package ledger

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/storage"
)

var baseTime = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

// failingStore fails writes to the named keys.
type failingStore struct {
	*storage.MemoryStore
	failKeys map[string]bool
	failAll  bool
}

var errDiskFull = stderrors.New("disk full")

func (s *failingStore) fail(key string) error {
	if s.failAll || s.failKeys[key] {
		return errors.NewStorageError("write "+key, errDiskFull)
	}
	return nil
}

func (s *failingStore) SetInt(ctx context.Context, key string, v int) error {
	if err := s.fail(key); err != nil {
		return err
	}
	return s.MemoryStore.SetInt(ctx, key, v)
}

func (s *failingStore) SetJSON(ctx context.Context, key string, v any) error {
	if err := s.fail(key); err != nil {
		return err
	}
	return s.MemoryStore.SetJSON(ctx, key, v)
}

func (s *failingStore) Remove(ctx context.Context, key string) error {
	if err := s.fail(key); err != nil {
		return err
	}
	return s.MemoryStore.Remove(ctx, key)
}

func (s *failingStore) Clear(ctx context.Context) error {
	if s.failAll {
		return errors.NewStorageError("clear store", errDiskFull)
	}
	return s.MemoryStore.Clear(ctx)
}

func setupLedger(t *testing.T) (*Ledger, *storage.MemoryStore, *FixedClock) {
	t.Helper()
	store := storage.NewMemoryStore()
	clock := NewFixedClock(baseTime)
	l := New(store, WithClock(clock))
	_, err := l.Initialize(context.Background())
	require.NoError(t, err)
	return l, store, clock
}

// recordTrip starts and ends a trip of tripType covering distance km.
func recordTrip(t *testing.T, l *Ledger, clock *FixedClock, tripType domain.TripType, distance int, note string) domain.Trip {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, l.SelectType(tripType))
	_, err := l.StartTrip(ctx, note)
	require.NoError(t, err)
	clock.Advance(30 * time.Minute)
	trip, err := l.EndTrip(ctx, l.CurrentKm()+distance)
	require.NoError(t, err)
	clock.Advance(time.Minute)
	return trip
}

func TestInitialize_EmptyStore(t *testing.T) {
	l := New(storage.NewMemoryStore())

	state, err := l.Initialize(context.Background())
	require.NoError(t, err)

	assert.False(t, state.HasBaseline)
	assert.False(t, state.HasActiveTrip)
	assert.Equal(t, 0, l.CurrentKm())
	assert.Empty(t, l.Trips())
	assert.Equal(t, domain.TripTypeBusiness, l.SelectedType())
}

func TestInitialize_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	trips := []domain.Trip{
		{ID: 2, Type: domain.TripTypePrivate, StartKm: 150, EndKm: 170, Distance: 20, StartTime: baseTime, EndTime: baseTime},
		{ID: 1, Type: domain.TripTypeBusiness, StartKm: 100, EndKm: 150, Distance: 50, StartTime: baseTime, EndTime: baseTime},
	}
	require.NoError(t, store.SetInt(ctx, storage.KeyCurrentKm, 170))
	require.NoError(t, store.SetJSON(ctx, storage.KeyTrips, trips))
	require.NoError(t, store.SetJSON(ctx, storage.KeyActiveTrip, domain.NewActiveTrip(domain.TripTypePrivate, 170, baseTime, "shop")))

	l := New(store)
	state, err := l.Initialize(ctx)
	require.NoError(t, err)

	assert.True(t, state.HasBaseline)
	assert.True(t, state.HasActiveTrip)
	assert.Equal(t, 170, l.CurrentKm())
	assert.Equal(t, []int64{2, 1}, ids(l.Trips()))
	active, ok := l.ActiveTrip()
	require.True(t, ok)
	assert.Equal(t, "shop", active.Note)
}

func TestInitialize_ZeroBaselineCounts(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetInt(ctx, storage.KeyCurrentKm, 0))

	state, err := New(store).Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, state.HasBaseline)
}

func TestInitialize_CorruptStoreIsStorageError(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetJSON(ctx, storage.KeyTrips, "not a list"))

	_, err := New(store).Initialize(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeStorage))
}

func TestSetBaseline(t *testing.T) {
	ctx := context.Background()

	for _, km := range []int{0, 1, 10000, 999999} {
		l, store, _ := setupLedger(t)
		require.NoError(t, l.SetBaseline(ctx, km))
		assert.Equal(t, km, l.CurrentKm())
		assert.True(t, l.HasBaseline())

		stored, ok, err := store.GetInt(ctx, storage.KeyCurrentKm)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, km, stored)
	}
}

func TestSetBaseline_RejectsNegative(t *testing.T) {
	l, store, _ := setupLedger(t)

	err := l.SetBaseline(context.Background(), -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOdometer)
	assert.False(t, l.HasBaseline())
	assert.Equal(t, 0, store.Len())
}

func TestUpdateOdometer(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 10000))

	require.NoError(t, l.UpdateOdometer(ctx, 9000), "manual override may go backwards")
	assert.Equal(t, 9000, l.CurrentKm())

	err := l.UpdateOdometer(ctx, -20)
	assert.ErrorIs(t, err, errors.ErrInvalidOdometer)
	assert.Equal(t, 9000, l.CurrentKm())
}

func TestSelectType(t *testing.T) {
	l, store, _ := setupLedger(t)

	require.NoError(t, l.SelectType(domain.TripTypePrivate))
	assert.Equal(t, domain.TripTypePrivate, l.SelectedType())
	assert.Equal(t, 0, store.Len(), "selection is not persisted")

	err := l.SelectType("commute")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Equal(t, domain.TripTypePrivate, l.SelectedType())
}

func TestStartTrip(t *testing.T) {
	ctx := context.Background()
	l, store, _ := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 10000))
	require.NoError(t, l.SelectType(domain.TripTypePrivate))

	active, err := l.StartTrip(ctx, "  groceries \n")
	require.NoError(t, err)

	assert.Equal(t, domain.TripTypePrivate, active.Type)
	assert.Equal(t, 10000, active.StartKm)
	assert.Equal(t, baseTime, active.StartTime)
	assert.Equal(t, "groceries", active.Note)

	var persisted domain.ActiveTrip
	ok, err := store.GetJSON(ctx, storage.KeyActiveTrip, &persisted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, active.StartKm, persisted.StartKm)
	assert.Equal(t, active.Note, persisted.Note)
}

func TestStartTrip_RejectsSecondTrip(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setupLedger(t)
	_, err := l.StartTrip(ctx, "first")
	require.NoError(t, err)

	_, err = l.StartTrip(ctx, "second")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrActiveTripExists)

	active, _ := l.ActiveTrip()
	assert.Equal(t, "first", active.Note)
}

func TestEndTrip_ClientVisitScenario(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 10000))
	require.NoError(t, l.SelectType(domain.TripTypeBusiness))
	_, err := l.StartTrip(ctx, "Client visit")
	require.NoError(t, err)
	clock.Advance(40 * time.Minute)

	trip, err := l.EndTrip(ctx, 10050)
	require.NoError(t, err)

	assert.Equal(t, domain.TripTypeBusiness, trip.Type)
	assert.Equal(t, 10000, trip.StartKm)
	assert.Equal(t, 10050, trip.EndKm)
	assert.Equal(t, 50, trip.Distance)
	assert.Equal(t, "Client visit", trip.Note)
	assert.Equal(t, baseTime, trip.StartTime)
	assert.Equal(t, baseTime.Add(40*time.Minute), trip.EndTime)
	assert.Equal(t, baseTime.Add(40*time.Minute).UnixMilli(), trip.ID)
	assert.Equal(t, 10050, l.CurrentKm())

	_, hasActive := l.ActiveTrip()
	assert.False(t, hasActive)

	km, _, err := store.GetInt(ctx, storage.KeyCurrentKm)
	require.NoError(t, err)
	assert.Equal(t, 10050, km)

	var active domain.ActiveTrip
	ok, err := store.GetJSON(ctx, storage.KeyActiveTrip, &active)
	require.NoError(t, err)
	assert.False(t, ok, "active trip slot cleared")

	var trips []domain.Trip
	_, err = store.GetJSON(ctx, storage.KeyTrips, &trips)
	require.NoError(t, err)
	assert.Equal(t, []int64{trip.ID}, ids(trips))
}

func TestEndTrip_PrependsNewestFirst(t *testing.T) {
	l, _, clock := setupLedger(t)
	first := recordTrip(t, l, clock, domain.TripTypeBusiness, 30, "")
	second := recordTrip(t, l, clock, domain.TripTypePrivate, 20, "")

	assert.Equal(t, []int64{second.ID, first.ID}, ids(l.Trips()))
	assert.Equal(t, first.EndKm, second.StartKm, "next trip starts where the last ended")
}

func TestEndTrip_ValidationLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		endKm   int
		wantErr error
	}{
		{"end equals start", 10000, errors.ErrEndBeforeStart},
		{"end below start", 9999, errors.ErrEndBeforeStart},
		{"negative end", -1, errors.ErrInvalidOdometer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, store, _ := setupLedger(t)
			require.NoError(t, l.SetBaseline(ctx, 10000))
			_, err := l.StartTrip(ctx, "")
			require.NoError(t, err)

			_, err = l.EndTrip(ctx, tt.endKm)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, l.Trips())
			assert.Equal(t, 10000, l.CurrentKm())
			_, hasActive := l.ActiveTrip()
			assert.True(t, hasActive, "open trip survives a rejected end")

			km, _, err := store.GetInt(ctx, storage.KeyCurrentKm)
			require.NoError(t, err)
			assert.Equal(t, 10000, km)
		})
	}
}

func TestEndTrip_NoActiveTrip(t *testing.T) {
	l, _, _ := setupLedger(t)

	_, err := l.EndTrip(context.Background(), 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNoActiveTrip)
}

func TestEndTrip_UniqueIDsWithinSameMillisecond(t *testing.T) {
	ctx := context.Background()
	l, _, _ := setupLedger(t)

	for i := 0; i < 3; i++ {
		_, err := l.StartTrip(ctx, "")
		require.NoError(t, err)
		_, err = l.EndTrip(ctx, l.CurrentKm()+1)
		require.NoError(t, err)
	}

	got := ids(l.Trips())
	assert.ElementsMatch(t, []int64{baseTime.UnixMilli(), baseTime.UnixMilli() + 1, baseTime.UnixMilli() + 2}, got)
}

func TestEndTrip_StorageFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: storage.NewMemoryStore(), failKeys: map[string]bool{}}
	l := New(store, WithClock(NewFixedClock(baseTime)))
	require.NoError(t, l.SetBaseline(ctx, 100))
	_, err := l.StartTrip(ctx, "")
	require.NoError(t, err)

	store.failKeys[storage.KeyTrips] = true
	_, err = l.EndTrip(ctx, 150)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStorage)
	assert.ErrorIs(t, err, errDiskFull)

	assert.Empty(t, l.Trips())
	assert.Equal(t, 100, l.CurrentKm())
	_, hasActive := l.ActiveTrip()
	assert.True(t, hasActive)
}

func TestCancelTrip(t *testing.T) {
	ctx := context.Background()
	l, store, _ := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 500))
	_, err := l.StartTrip(ctx, "wrong button")
	require.NoError(t, err)

	require.NoError(t, l.CancelTrip(ctx))

	_, hasActive := l.ActiveTrip()
	assert.False(t, hasActive)
	assert.Empty(t, l.Trips())
	assert.Equal(t, 500, l.CurrentKm())
	var active domain.ActiveTrip
	ok, err := store.GetJSON(ctx, storage.KeyActiveTrip, &active)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, l.CancelTrip(ctx), errors.ErrNoActiveTrip)
}

func TestFindByID(t *testing.T) {
	l, _, clock := setupLedger(t)
	trip := recordTrip(t, l, clock, domain.TripTypeBusiness, 12, "")

	found, ok := l.FindByID(trip.ID)
	assert.True(t, ok)
	assert.Equal(t, trip, found)

	_, ok = l.FindByID(trip.ID + 999)
	assert.False(t, ok)
}

func TestUpdateTrip_RecomputesDistanceKeepsTimes(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 10000))
	trip := recordTrip(t, l, clock, domain.TripTypeBusiness, 50, "Client visit")
	require.Equal(t, 10050, trip.EndKm)

	updated, err := l.UpdateTrip(ctx, trip.ID, TripUpdate{
		Type:    domain.TripTypeBusiness,
		StartKm: 10000,
		EndKm:   10070,
		Note:    "Client visit",
	})
	require.NoError(t, err)

	assert.Equal(t, 70, updated.Distance)
	assert.Equal(t, trip.ID, updated.ID)
	assert.Equal(t, trip.StartTime, updated.StartTime)
	assert.Equal(t, trip.EndTime, updated.EndTime)
	assert.Equal(t, 10050, l.CurrentKm(), "editing a trip does not move the odometer")

	var trips []domain.Trip
	_, err = store.GetJSON(ctx, storage.KeyTrips, &trips)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, 70, trips[0].Distance)
}

func TestUpdateTrip_ChangesTypeAndNote(t *testing.T) {
	ctx := context.Background()
	l, _, clock := setupLedger(t)
	trip := recordTrip(t, l, clock, domain.TripTypeBusiness, 10, "old")

	updated, err := l.UpdateTrip(ctx, trip.ID, TripUpdate{Type: domain.TripTypePrivate, StartKm: trip.StartKm, EndKm: trip.EndKm, Note: ""})
	require.NoError(t, err)

	assert.Equal(t, domain.TripTypePrivate, updated.Type)
	assert.Equal(t, "", updated.Note)
	found, _ := l.FindByID(trip.ID)
	assert.Equal(t, updated, found)
}

func TestUpdateTrip_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		id      func(domain.Trip) int64
		update  TripUpdate
		wantErr error
	}{
		{"unknown id", func(tr domain.Trip) int64 { return tr.ID + 1 }, TripUpdate{Type: domain.TripTypeBusiness, StartKm: 0, EndKm: 10}, errors.ErrTripNotFound},
		{"negative start", func(tr domain.Trip) int64 { return tr.ID }, TripUpdate{Type: domain.TripTypeBusiness, StartKm: -1, EndKm: 10}, errors.ErrInvalidOdometer},
		{"negative end", func(tr domain.Trip) int64 { return tr.ID }, TripUpdate{Type: domain.TripTypeBusiness, StartKm: 0, EndKm: -10}, errors.ErrInvalidOdometer},
		{"end equals start", func(tr domain.Trip) int64 { return tr.ID }, TripUpdate{Type: domain.TripTypeBusiness, StartKm: 10, EndKm: 10}, errors.ErrEndBeforeStart},
		{"unknown type", func(tr domain.Trip) int64 { return tr.ID }, TripUpdate{Type: "bike", StartKm: 0, EndKm: 10}, errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, _, clock := setupLedger(t)
			trip := recordTrip(t, l, clock, domain.TripTypeBusiness, 25, "keep")

			_, err := l.UpdateTrip(context.Background(), tt.id(trip), tt.update)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			found, _ := l.FindByID(trip.ID)
			assert.Equal(t, trip, found, "rejected update leaves the trip untouched")
		})
	}
}

func TestDeleteTrip(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	a := recordTrip(t, l, clock, domain.TripTypeBusiness, 30, "")
	b := recordTrip(t, l, clock, domain.TripTypePrivate, 20, "")
	c := recordTrip(t, l, clock, domain.TripTypeBusiness, 5, "")

	removed, err := l.DeleteTrip(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []int64{c.ID, a.ID}, ids(l.Trips()))

	var trips []domain.Trip
	_, err = store.GetJSON(ctx, storage.KeyTrips, &trips)
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, a.ID}, ids(trips))

	removed, err = l.DeleteTrip(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, l.Trips(), 2)
}

func TestClearAllTrips_KeepsOdometerAndSettings(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 100))
	recordTrip(t, l, clock, domain.TripTypeBusiness, 30, "")
	require.NoError(t, l.UpdateSettings(ctx, domain.Settings{PrivatePrice: 30000, StartDate: baseTime}))

	require.NoError(t, l.ClearAllTrips(ctx))

	assert.Empty(t, l.Trips())
	assert.Equal(t, 130, l.CurrentKm())

	reloaded := New(store)
	state, err := reloaded.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, state.HasBaseline)
	assert.Empty(t, reloaded.Trips())
	settings, err := reloaded.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(30000), settings.PrivatePrice)
}

func TestResetAll(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 100))
	recordTrip(t, l, clock, domain.TripTypePrivate, 30, "")
	_, err := l.StartTrip(ctx, "open")
	require.NoError(t, err)

	require.NoError(t, l.ResetAll(ctx))

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, l.CurrentKm())
	assert.False(t, l.HasBaseline())
	assert.Empty(t, l.Trips())
	assert.Equal(t, domain.TripTypeBusiness, l.SelectedType())
	_, hasActive := l.ActiveTrip()
	assert.False(t, hasActive)
}

func TestResetAll_StorageFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: storage.NewMemoryStore()}
	l := New(store)
	require.NoError(t, l.SetBaseline(ctx, 100))

	store.failAll = true
	err := l.ResetAll(ctx)
	assert.ErrorIs(t, err, errors.ErrStorage)
	assert.Equal(t, 100, l.CurrentKm())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	l, store, clock := setupLedger(t)
	require.NoError(t, l.SetBaseline(ctx, 1000))
	for i := 0; i < 5; i++ {
		tripType := domain.TripTypeBusiness
		if i%2 == 1 {
			tripType = domain.TripTypePrivate
		}
		recordTrip(t, l, clock, tripType, 10+i, "note")
	}

	reloaded := New(store)
	_, err := reloaded.Initialize(ctx)
	require.NoError(t, err)

	want := l.Trips()
	got := reloaded.Trips()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].StartKm, got[i].StartKm)
		assert.Equal(t, want[i].EndKm, got[i].EndKm)
		assert.Equal(t, want[i].Distance, got[i].Distance)
		assert.True(t, want[i].StartTime.Equal(got[i].StartTime))
		assert.True(t, want[i].EndTime.Equal(got[i].EndTime))
		assert.Equal(t, want[i].Note, got[i].Note)
	}
	assert.Equal(t, l.CurrentKm(), reloaded.CurrentKm())
}

func TestTrips_ReturnsCopy(t *testing.T) {
	l, _, clock := setupLedger(t)
	recordTrip(t, l, clock, domain.TripTypeBusiness, 10, "")

	trips := l.Trips()
	trips[0].Distance = 9999

	assert.Equal(t, 10, l.Trips()[0].Distance)
}

func ids(trips []domain.Trip) []int64 {
	out := make([]int64, len(trips))
	for i, t := range trips {
		out[i] = t.ID
	}
	return out
}
