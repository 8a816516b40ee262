package ledger

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

func TestSettings_Defaults(t *testing.T) {
	l, _, _ := setupLedger(t)

	settings, err := l.Settings(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.MustParseMoney("251.00"), settings.PrivatePrice)
	assert.Equal(t, "2025-01-01", settings.StartDate.Format(domain.DateLayout))
}

func TestUpdateSettings_RoundTrip(t *testing.T) {
	ctx := context.Background()
	l, store, _ := setupLedger(t)
	want := domain.Settings{
		PrivatePrice: domain.MustParseMoney("199.90"),
		StartDate:    time.Date(2026, time.March, 1, 0, 0, 0, 0, time.Local),
	}

	require.NoError(t, l.UpdateSettings(ctx, want))

	got, err := New(store).Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.PrivatePrice, got.PrivatePrice)
	assert.True(t, want.StartDate.Equal(got.StartDate))
}

func TestSettings_PartialStoreFallsBackPerField(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetJSON(ctx, storage.KeyPrivatePrice, "300,50"))

	settings, err := New(store).Settings(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.Money(30050), settings.PrivatePrice)
	assert.Equal(t, domain.DefaultStartDate, settings.StartDate)
}

func TestSettings_MalformedDateIsStorageError(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.SetJSON(ctx, storage.KeyStartDate, "01.01.2025"))

	_, err := New(store).Settings(ctx)
	assert.ErrorIs(t, err, errors.ErrStorage)
}

func TestUpdateSettings_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.Settings
	}{
		{"zero price", domain.Settings{PrivatePrice: 0, StartDate: baseTime}},
		{"negative price", domain.Settings{PrivatePrice: -100, StartDate: baseTime}},
		{"missing date", domain.Settings{PrivatePrice: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store, _ := setupLedger(t)

			err := l.UpdateSettings(context.Background(), tt.settings)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
			assert.Equal(t, 0, store.Len())
		})
	}
}
