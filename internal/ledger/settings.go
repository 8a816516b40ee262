package ledger

import (
	"context"
	"time"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/storage"
)

// Settings returns the stored settings, falling back to defaults per field.
func (l *Ledger) Settings(ctx context.Context) (domain.Settings, error) {
	settings := domain.DefaultSettings()

	var price domain.Money
	ok, err := l.store.GetJSON(ctx, storage.KeyPrivatePrice, &price)
	if err != nil {
		return domain.Settings{}, err
	}
	if ok {
		settings.PrivatePrice = price
	}

	var startDate string
	ok, err = l.store.GetJSON(ctx, storage.KeyStartDate, &startDate)
	if err != nil {
		return domain.Settings{}, err
	}
	if ok {
		parsed, err := time.ParseInLocation(domain.DateLayout, startDate, time.Local)
		if err != nil {
			return domain.Settings{}, errors.NewStorageError("decode "+storage.KeyStartDate, err)
		}
		settings.StartDate = parsed
	}

	return settings, nil
}

// UpdateSettings validates and stores both settings.
func (l *Ledger) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if settings.PrivatePrice <= 0 {
		return errors.NewInvalidInputError("private_price", settings.PrivatePrice.String(), "must be greater than zero")
	}
	if settings.StartDate.IsZero() {
		return errors.NewInvalidInputError("start_date", "", "is required")
	}

	if err := l.store.SetJSON(ctx, storage.KeyPrivatePrice, settings.PrivatePrice); err != nil {
		l.logFailure(ctx, "update settings", err)
		return err
	}
	if err := l.store.SetJSON(ctx, storage.KeyStartDate, settings.StartDate.Format(domain.DateLayout)); err != nil {
		l.logFailure(ctx, "update settings", err)
		return err
	}
	return nil
}
