// Package ledger owns the odometer, the open trip and the collection of
// closed trips, and keeps them in step with the persistence store.
package ledger

import (
	"context"
	"log/slog"
	"strings"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/storage"
)

// InitState tells the caller which screen to show after loading.
type InitState struct {
	HasBaseline   bool
	HasActiveTrip bool
}

// TripUpdate carries the editable fields of a closed trip.
type TripUpdate struct {
	Type    domain.TripType
	StartKm int
	EndKm   int
	Note    string
}

// Ledger is the trip ledger. It is not safe for concurrent use; one ledger
// serves one logical actor.
type Ledger struct {
	store  storage.Store
	clock  Clock
	logger *slog.Logger

	currentKm    int
	hasBaseline  bool
	activeTrip   *domain.ActiveTrip
	trips        []domain.Trip
	selectedType domain.TripType
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock replaces the wall clock
func WithClock(clock Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithLogger sets the logger used for state transitions
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logging.WithComponent(logger, logging.ComponentLedger)
	}
}

// New creates a ledger in its construction defaults. Call Initialize to load persisted state.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:        store,
		clock:        SystemClock{},
		logger:       logging.WithComponent(logging.Discard(), logging.ComponentLedger),
		selectedType: domain.TripTypeBusiness,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Initialize loads the odometer, trips and open trip from the store.
// Missing keys are a valid initial state.
func (l *Ledger) Initialize(ctx context.Context) (InitState, error) {
	km, hasKm, err := l.store.GetInt(ctx, storage.KeyCurrentKm)
	if err != nil {
		return InitState{}, err
	}

	var trips []domain.Trip
	if _, err := l.store.GetJSON(ctx, storage.KeyTrips, &trips); err != nil {
		return InitState{}, err
	}

	var active domain.ActiveTrip
	hasActive, err := l.store.GetJSON(ctx, storage.KeyActiveTrip, &active)
	if err != nil {
		return InitState{}, err
	}

	l.currentKm = 0
	l.hasBaseline = hasKm
	if hasKm {
		l.currentKm = km
	}
	l.trips = trips
	l.activeTrip = nil
	if hasActive {
		l.activeTrip = &active
	}

	invalid := 0
	for _, t := range trips {
		if !t.IsValid() {
			invalid++
		}
	}
	if invalid > 0 {
		l.logger.WarnContext(ctx, "loaded trips violate ledger invariants", logging.FieldCount, invalid)
	}
	l.logger.DebugContext(ctx, "ledger loaded",
		logging.FieldCurrentKm, l.currentKm,
		logging.FieldCount, len(trips),
		"active_trip", hasActive)

	return InitState{HasBaseline: hasKm, HasActiveTrip: hasActive}, nil
}

// CurrentKm returns the odometer reading
func (l *Ledger) CurrentKm() int {
	return l.currentKm
}

// HasBaseline reports whether an odometer reading has been recorded
func (l *Ledger) HasBaseline() bool {
	return l.hasBaseline
}

// ActiveTrip returns the open trip, if any
func (l *Ledger) ActiveTrip() (domain.ActiveTrip, bool) {
	if l.activeTrip == nil {
		return domain.ActiveTrip{}, false
	}
	return *l.activeTrip, true
}

// Trips returns a copy of the closed trips, newest first
func (l *Ledger) Trips() []domain.Trip {
	out := make([]domain.Trip, len(l.trips))
	copy(out, l.trips)
	return out
}

// SelectedType returns the type the next started trip will get
func (l *Ledger) SelectedType() domain.TripType {
	return l.selectedType
}

// SetBaseline records the initial odometer reading. It may be called again.
func (l *Ledger) SetBaseline(ctx context.Context, km int) error {
	return l.setOdometer(ctx, "set baseline", km)
}

// UpdateOdometer corrects the odometer reading outside of the trip flow.
func (l *Ledger) UpdateOdometer(ctx context.Context, km int) error {
	return l.setOdometer(ctx, "update odometer", km)
}

func (l *Ledger) setOdometer(ctx context.Context, operation string, km int) error {
	if km < 0 {
		return errors.NewInvalidOdometerError("odometer", km)
	}
	if err := l.store.SetInt(ctx, storage.KeyCurrentKm, km); err != nil {
		l.logFailure(ctx, operation, err)
		return err
	}
	l.currentKm = km
	l.hasBaseline = true
	l.logger.DebugContext(ctx, "odometer set", logging.FieldOperation, operation, logging.FieldCurrentKm, km)
	return nil
}

// SelectType sets the type of the next started trip. It is not persisted.
func (l *Ledger) SelectType(tripType domain.TripType) error {
	if !tripType.IsValid() {
		return errors.NewInvalidInputError("type", tripType, "must be business or private")
	}
	l.selectedType = tripType
	return nil
}

// StartTrip opens a trip at the current odometer reading.
func (l *Ledger) StartTrip(ctx context.Context, note string) (domain.ActiveTrip, error) {
	if l.activeTrip != nil {
		return domain.ActiveTrip{}, errors.NewActiveTripExistsError(l.activeTrip.StartKm)
	}

	active := domain.NewActiveTrip(l.selectedType, l.currentKm, l.clock.Now(), strings.TrimSpace(note))
	if err := l.store.SetJSON(ctx, storage.KeyActiveTrip, active); err != nil {
		l.logFailure(ctx, "start trip", err)
		return domain.ActiveTrip{}, err
	}

	l.activeTrip = &active
	l.logger.DebugContext(ctx, "trip started",
		logging.FieldTripType, active.Type,
		logging.FieldStartKm, active.StartKm)
	return active, nil
}

// EndTrip closes the open trip at endKm and records it as the newest trip.
// On a validation failure nothing changes.
func (l *Ledger) EndTrip(ctx context.Context, endKm int) (domain.Trip, error) {
	if l.activeTrip == nil {
		return domain.Trip{}, errors.NewNoActiveTripError("end trip")
	}
	if endKm < 0 {
		return domain.Trip{}, errors.NewInvalidOdometerError("end_km", endKm)
	}
	if endKm <= l.activeTrip.StartKm {
		return domain.Trip{}, errors.NewEndBeforeStartError(l.activeTrip.StartKm, endKm)
	}

	now := l.clock.Now()
	trip := l.activeTrip.Close(l.nextID(now.UnixMilli()), endKm, now)

	trips := make([]domain.Trip, 0, len(l.trips)+1)
	trips = append(trips, trip)
	trips = append(trips, l.trips...)

	if err := l.store.SetJSON(ctx, storage.KeyTrips, trips); err != nil {
		l.logFailure(ctx, "end trip", err)
		return domain.Trip{}, err
	}
	l.trips = trips

	if err := l.store.SetInt(ctx, storage.KeyCurrentKm, endKm); err != nil {
		l.logFailure(ctx, "end trip", err)
		return domain.Trip{}, err
	}
	l.currentKm = endKm
	l.hasBaseline = true

	if err := l.store.Remove(ctx, storage.KeyActiveTrip); err != nil {
		l.logFailure(ctx, "end trip", err)
		return domain.Trip{}, err
	}
	l.activeTrip = nil

	l.logger.DebugContext(ctx, "trip ended",
		logging.FieldTripID, trip.ID,
		logging.FieldTripType, trip.Type,
		logging.FieldDistance, trip.Distance)
	return trip, nil
}

// CancelTrip discards the open trip without recording it.
func (l *Ledger) CancelTrip(ctx context.Context) error {
	if l.activeTrip == nil {
		return errors.NewNoActiveTripError("cancel trip")
	}
	if err := l.store.Remove(ctx, storage.KeyActiveTrip); err != nil {
		l.logFailure(ctx, "cancel trip", err)
		return err
	}
	l.activeTrip = nil
	l.logger.DebugContext(ctx, "trip cancelled")
	return nil
}

// FindByID looks a closed trip up by id
func (l *Ledger) FindByID(id int64) (domain.Trip, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.trips[i], true
	}
	return domain.Trip{}, false
}

// UpdateTrip replaces the type, readings and note of a trip and recomputes
// its distance. Id and times are never changed.
func (l *Ledger) UpdateTrip(ctx context.Context, id int64, update TripUpdate) (domain.Trip, error) {
	i := l.indexOf(id)
	if i < 0 {
		return domain.Trip{}, errors.NewTripNotFoundError(id)
	}
	if !update.Type.IsValid() {
		return domain.Trip{}, errors.NewInvalidInputError("type", update.Type, "must be business or private")
	}
	if update.StartKm < 0 {
		return domain.Trip{}, errors.NewInvalidOdometerError("start_km", update.StartKm)
	}
	if update.EndKm < 0 {
		return domain.Trip{}, errors.NewInvalidOdometerError("end_km", update.EndKm)
	}
	if update.EndKm <= update.StartKm {
		return domain.Trip{}, errors.NewEndBeforeStartError(update.StartKm, update.EndKm)
	}

	trip := l.trips[i]
	trip.Type = update.Type
	trip.StartKm = update.StartKm
	trip.EndKm = update.EndKm
	trip.Distance = update.EndKm - update.StartKm
	trip.Note = update.Note

	trips := l.Trips()
	trips[i] = trip
	if err := l.store.SetJSON(ctx, storage.KeyTrips, trips); err != nil {
		l.logFailure(ctx, "update trip", err)
		return domain.Trip{}, err
	}
	l.trips = trips

	l.logger.DebugContext(ctx, "trip updated", logging.FieldTripID, id, logging.FieldDistance, trip.Distance)
	return trip, nil
}

// DeleteTrip removes a trip by id and reports whether one was removed.
func (l *Ledger) DeleteTrip(ctx context.Context, id int64) (bool, error) {
	i := l.indexOf(id)
	if i < 0 {
		return false, nil
	}

	trips := make([]domain.Trip, 0, len(l.trips)-1)
	trips = append(trips, l.trips[:i]...)
	trips = append(trips, l.trips[i+1:]...)

	if err := l.store.SetJSON(ctx, storage.KeyTrips, trips); err != nil {
		l.logFailure(ctx, "delete trip", err)
		return false, err
	}
	l.trips = trips

	l.logger.DebugContext(ctx, "trip deleted", logging.FieldTripID, id)
	return true, nil
}

// ClearAllTrips empties the trip collection. Odometer, open trip and settings stay.
func (l *Ledger) ClearAllTrips(ctx context.Context) error {
	if err := l.store.Remove(ctx, storage.KeyTrips); err != nil {
		l.logFailure(ctx, "clear trips", err)
		return err
	}
	removed := len(l.trips)
	l.trips = nil
	l.logger.DebugContext(ctx, "trips cleared", logging.FieldCount, removed)
	return nil
}

// ResetAll clears every persisted key and returns the ledger to its construction defaults.
func (l *Ledger) ResetAll(ctx context.Context) error {
	if err := l.store.Clear(ctx); err != nil {
		l.logFailure(ctx, "reset", err)
		return err
	}
	l.reset()
	l.logger.DebugContext(ctx, "ledger reset")
	return nil
}

func (l *Ledger) reset() {
	l.currentKm = 0
	l.hasBaseline = false
	l.activeTrip = nil
	l.trips = nil
	l.selectedType = domain.TripTypeBusiness
}

func (l *Ledger) indexOf(id int64) int {
	for i, t := range l.trips {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID derives an id from the clock and steps past ids already in use.
func (l *Ledger) nextID(candidate int64) int64 {
	for l.indexOf(candidate) >= 0 {
		candidate++
	}
	return candidate
}

func (l *Ledger) logFailure(ctx context.Context, operation string, err error) {
	if errors.ShouldLogError(err) {
		l.logger.ErrorContext(ctx, "ledger operation failed",
			logging.FieldOperation, operation,
			logging.FieldError, err)
	}
}
