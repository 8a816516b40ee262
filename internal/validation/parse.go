package validation

import (
	"strconv"
	"strings"
	"time"

	"mileage-logbook/internal/domain"
)

// Accepted date layouts, ISO first.
var dateLayouts = []string{domain.DateLayout, "02.01.2006"}

var tripTypeAliases = map[string]domain.TripType{
	"business":     domain.TripTypeBusiness,
	"b":            domain.TripTypeBusiness,
	"geschäftlich": domain.TripTypeBusiness,
	"private":      domain.TripTypePrivate,
	"p":            domain.TripTypePrivate,
	"privat":       domain.TripTypePrivate,
}

// ParseOdometer parses a reading in whole kilometres. Signs, decimals and
// anything but digits are rejected.
func ParseOdometer(field, raw string) (int, error) {
	ve := NewValidationError()
	km := parseOdometer(ve, field, raw)
	return km, ve.errOrNil()
}

// ParseTripType parses a trip type name. English and German names and
// their first letter are accepted in any case.
func ParseTripType(raw string) (domain.TripType, error) {
	ve := NewValidationError()
	t := parseTripType(ve, raw)
	return t, ve.errOrNil()
}

// ParsePrice parses a positive decimal amount such as 251.00 or 251,00.
func ParsePrice(raw string) (domain.Money, error) {
	ve := NewValidationError()
	if strings.TrimSpace(raw) == "" {
		ve.AddRequiredError("price")
		return 0, ve
	}
	m, err := domain.ParseMoney(raw)
	if err != nil {
		ve.AddInvalidFormatError("price", raw, "a decimal amount like 251.00")
		return 0, ve
	}
	if m <= 0 {
		ve.AddInvalidRangeError("price", raw, "must be greater than zero")
		return 0, ve
	}
	return m, nil
}

// ParseDate parses a calendar date as YYYY-MM-DD or DD.MM.YYYY in the local time zone.
func ParseDate(raw string) (time.Time, error) {
	ve := NewValidationError()
	s := strings.TrimSpace(raw)
	if s == "" {
		ve.AddRequiredError("date")
		return time.Time{}, ve
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	ve.AddInvalidFormatError("date", raw, "YYYY-MM-DD or DD.MM.YYYY")
	return time.Time{}, ve
}

// ParseTripID parses a trip id as printed by the list command.
func ParseTripID(raw string) (int64, error) {
	ve := NewValidationError()
	s := strings.TrimSpace(raw)
	if s == "" {
		ve.AddRequiredError("trip_id")
		return 0, ve
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		ve.AddInvalidValueError("trip_id", raw, "must be a positive integer")
		return 0, ve
	}
	return id, nil
}

// TripEdit holds the raw flag values of an edit. Nil fields are left unchanged.
type TripEdit struct {
	Type    *string
	StartKm *string
	EndKm   *string
	Note    *string
}

// ApplyTripEdit parses every supplied field onto a copy of trip and reports
// all malformed fields at once. Range checks between the readings are left
// to the ledger.
func ApplyTripEdit(trip domain.Trip, edit TripEdit) (domain.Trip, error) {
	ve := NewValidationError()
	if edit.Type != nil {
		trip.Type = parseTripType(ve, *edit.Type)
	}
	if edit.StartKm != nil {
		trip.StartKm = parseOdometer(ve, "start_km", *edit.StartKm)
	}
	if edit.EndKm != nil {
		trip.EndKm = parseOdometer(ve, "end_km", *edit.EndKm)
	}
	if edit.Note != nil {
		trip.Note = strings.TrimSpace(*edit.Note)
	}
	if err := ve.errOrNil(); err != nil {
		return domain.Trip{}, err
	}
	trip.Distance = trip.EndKm - trip.StartKm
	return trip, nil
}

func parseOdometer(ve *ValidationError, field, raw string) int {
	s := strings.TrimSpace(raw)
	if s == "" {
		ve.AddOdometerError(field, raw)
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			ve.AddOdometerError(field, raw)
			return 0
		}
	}
	km, err := strconv.Atoi(s)
	if err != nil {
		ve.AddOdometerError(field, raw)
		return 0
	}
	return km
}

func parseTripType(ve *ValidationError, raw string) domain.TripType {
	t, ok := tripTypeAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		ve.AddInvalidValueError("type", raw, "must be business or private")
		return ""
	}
	return t
}
