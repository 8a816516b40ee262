package domain

import (
	"time"
)

// TripType tags a trip as business or private travel.
type TripType string

const (
	TripTypeBusiness TripType = "business"
	TripTypePrivate  TripType = "private"
)

// IsValid reports whether the type is one of the known trip types.
func (t TripType) IsValid() bool {
	return t == TripTypeBusiness || t == TripTypePrivate
}

// String returns the persisted name of the trip type.
func (t TripType) String() string {
	return string(t)
}

// Trip is a closed, immutable record of travel between two odometer readings.
// The JSON field names are the persisted shape and must not change.
type Trip struct {
	ID        int64     `json:"id"`
	Type      TripType  `json:"type"`
	StartKm   int       `json:"startKm"`
	EndKm     int       `json:"endKm"`
	Distance  int       `json:"distance"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Note      string    `json:"note"`
}

// IsValid checks the trip invariants: a known type, non-negative readings,
// end beyond start, a consistent distance and an end time not before the start.
func (t Trip) IsValid() bool {
	if !t.Type.IsValid() {
		return false
	}
	if t.StartKm < 0 || t.EndKm <= t.StartKm {
		return false
	}
	if t.Distance != t.EndKm-t.StartKm {
		return false
	}
	return !t.EndTime.Before(t.StartTime)
}

// ActiveTrip is an open trip that has been started but not yet ended.
type ActiveTrip struct {
	Type      TripType  `json:"type"`
	StartKm   int       `json:"startKm"`
	StartTime time.Time `json:"startTime"`
	Note      string    `json:"note"`
}

// NewActiveTrip opens a trip of the given type at the current odometer reading.
func NewActiveTrip(tripType TripType, startKm int, startTime time.Time, note string) ActiveTrip {
	return ActiveTrip{
		Type:      tripType,
		StartKm:   startKm,
		StartTime: startTime,
		Note:      note,
	}
}

// Close turns the active trip into a Trip ending at endKm.
// The caller is responsible for checking endKm > StartKm.
func (a ActiveTrip) Close(id int64, endKm int, endTime time.Time) Trip {
	return Trip{
		ID:        id,
		Type:      a.Type,
		StartKm:   a.StartKm,
		EndKm:     endKm,
		Distance:  endKm - a.StartKm,
		StartTime: a.StartTime,
		EndTime:   endTime,
		Note:      a.Note,
	}
}

// Elapsed returns how long the trip has been running at now.
func (a ActiveTrip) Elapsed(now time.Time) time.Duration {
	if now.Before(a.StartTime) {
		return 0
	}
	return now.Sub(a.StartTime)
}
