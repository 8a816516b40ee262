package ledger

import (
	"context"
	"fmt"
	"time"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/logging"
	"mileage-logbook/internal/storage"
)

// SnapshotVersion is the format version written into backups.
const SnapshotVersion = 1

// State is a backup of every persisted key. Absent keys stay nil.
type State struct {
	Version      int                `json:"version"`
	CurrentKm    *int               `json:"currentKm,omitempty"`
	Trips        []domain.Trip      `json:"trips"`
	ActiveTrip   *domain.ActiveTrip `json:"activeTrip,omitempty"`
	PrivatePrice *domain.Money      `json:"privatePrice,omitempty"`
	StartDate    *string            `json:"startDate,omitempty"`
}

// Snapshot reads every persisted key into a State.
func (l *Ledger) Snapshot(ctx context.Context) (State, error) {
	state := State{Version: SnapshotVersion, Trips: []domain.Trip{}}

	km, ok, err := l.store.GetInt(ctx, storage.KeyCurrentKm)
	if err != nil {
		return State{}, err
	}
	if ok {
		state.CurrentKm = &km
	}

	if _, err := l.store.GetJSON(ctx, storage.KeyTrips, &state.Trips); err != nil {
		return State{}, err
	}

	var active domain.ActiveTrip
	if ok, err = l.store.GetJSON(ctx, storage.KeyActiveTrip, &active); err != nil {
		return State{}, err
	} else if ok {
		state.ActiveTrip = &active
	}

	var price domain.Money
	if ok, err = l.store.GetJSON(ctx, storage.KeyPrivatePrice, &price); err != nil {
		return State{}, err
	} else if ok {
		state.PrivatePrice = &price
	}

	var startDate string
	if ok, err = l.store.GetJSON(ctx, storage.KeyStartDate, &startDate); err != nil {
		return State{}, err
	} else if ok {
		state.StartDate = &startDate
	}

	return state, nil
}

// Restore validates a backup, writes it over the store and reloads the ledger.
// Nothing is written when the backup is invalid. When a write fails the
// previous contents are written back and the ledger is reloaded from
// whatever the store then holds.
func (l *Ledger) Restore(ctx context.Context, state State) error {
	if err := validateState(state); err != nil {
		return err
	}

	previous, err := l.Snapshot(ctx)
	if err != nil {
		l.logFailure(ctx, "restore", err)
		return err
	}

	if err := l.writeState(ctx, state); err != nil {
		l.logFailure(ctx, "restore", err)
		if rollbackErr := l.writeState(ctx, previous); rollbackErr != nil {
			l.logFailure(ctx, "restore rollback", rollbackErr)
		}
		l.reload(ctx)
		return err
	}

	l.reset()
	if _, err := l.Initialize(ctx); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "ledger restored", logging.FieldCount, len(state.Trips))
	return nil
}

// writeState stores every key present in state and then removes the keys it
// leaves absent, so a failed write never happens after existing data is gone.
func (l *Ledger) writeState(ctx context.Context, state State) error {
	var absent []string

	if state.CurrentKm != nil {
		if err := l.store.SetInt(ctx, storage.KeyCurrentKm, *state.CurrentKm); err != nil {
			return err
		}
	} else {
		absent = append(absent, storage.KeyCurrentKm)
	}
	if len(state.Trips) > 0 {
		if err := l.store.SetJSON(ctx, storage.KeyTrips, state.Trips); err != nil {
			return err
		}
	} else {
		absent = append(absent, storage.KeyTrips)
	}
	if state.ActiveTrip != nil {
		if err := l.store.SetJSON(ctx, storage.KeyActiveTrip, state.ActiveTrip); err != nil {
			return err
		}
	} else {
		absent = append(absent, storage.KeyActiveTrip)
	}
	if state.PrivatePrice != nil {
		if err := l.store.SetJSON(ctx, storage.KeyPrivatePrice, *state.PrivatePrice); err != nil {
			return err
		}
	} else {
		absent = append(absent, storage.KeyPrivatePrice)
	}
	if state.StartDate != nil {
		if err := l.store.SetJSON(ctx, storage.KeyStartDate, *state.StartDate); err != nil {
			return err
		}
	} else {
		absent = append(absent, storage.KeyStartDate)
	}

	for _, key := range absent {
		if err := l.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// reload replaces the in-memory state with what the store holds
func (l *Ledger) reload(ctx context.Context) {
	l.reset()
	if _, err := l.Initialize(ctx); err != nil {
		l.logFailure(ctx, "reload", err)
	}
}

func validateState(state State) error {
	if state.Version != SnapshotVersion {
		return errors.NewInvalidInputError("version", state.Version, fmt.Sprintf("unsupported backup version, want %d", SnapshotVersion))
	}
	if state.CurrentKm != nil && *state.CurrentKm < 0 {
		return errors.NewInvalidOdometerError("currentKm", *state.CurrentKm)
	}
	seen := make(map[int64]bool, len(state.Trips))
	for _, t := range state.Trips {
		if !t.IsValid() {
			return errors.NewInvalidInputError("trips", t.ID, "trip violates ledger invariants")
		}
		if seen[t.ID] {
			return errors.NewInvalidInputError("trips", t.ID, "duplicate trip id")
		}
		seen[t.ID] = true
	}
	if state.ActiveTrip != nil {
		if !state.ActiveTrip.Type.IsValid() || state.ActiveTrip.StartKm < 0 {
			return errors.NewInvalidInputError("activeTrip", state.ActiveTrip.StartKm, "open trip is malformed")
		}
	}
	if state.PrivatePrice != nil && *state.PrivatePrice <= 0 {
		return errors.NewInvalidInputError("privatePrice", state.PrivatePrice.String(), "must be greater than zero")
	}
	if state.StartDate != nil {
		if _, err := time.Parse(domain.DateLayout, *state.StartDate); err != nil {
			return errors.NewInvalidInputError("startDate", *state.StartDate, "must be a date like 2025-01-01")
		}
	}
	return nil
}
