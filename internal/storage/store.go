// Package storage defines the key-value persistence contract of the logbook
// and an in-memory implementation of it.
package storage

import (
	"context"
)

// Persisted keys. The names are the ones earlier versions of the logbook stored and
// must stay stable so existing data keeps loading.
const (
	KeyCurrentKm    = "currentKm"
	KeyTrips        = "trips"
	KeyActiveTrip   = "activeTrip"
	KeyPrivatePrice = "privatePrice"
	KeyStartDate    = "startDate"
)

// Keys lists every key the logbook persists.
var Keys = []string{KeyCurrentKm, KeyTrips, KeyActiveTrip, KeyPrivatePrice, KeyStartDate}

// Store is a key-value store of integers and JSON documents.
//
// A missing key is reported through the boolean result and never as an error.
// Errors are reserved for failures of the underlying medium or of encoding.
type Store interface {
	GetInt(ctx context.Context, key string) (int, bool, error)
	SetInt(ctx context.Context, key string, value int) error
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Close() error
}
