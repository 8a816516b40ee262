package report

import (
	"fmt"
	"sort"
	"time"

	"mileage-logbook/internal/domain"
)

// Locale holds the labels and layouts used when rendering exports.
type Locale struct {
	Name       string
	FlatHeader []string
	Business   string
	Private    string
	DateLayout string
	TimeLayout string
	MonthLabel string
	// WeekLabel is a format string taking the ISO week number.
	WeekLabel string
	Months    [12]string
}

var German = Locale{
	Name:       "de",
	FlatHeader: []string{"Datum", "Start Zeit", "Ende Zeit", "Typ", "Start KM", "Ende KM", "Distanz", "Notiz"},
	Business:   "Geschäftlich",
	Private:    "Privat",
	DateLayout: "02.01.2006",
	TimeLayout: "15:04:05",
	MonthLabel: "Monat",
	WeekLabel:  "KW %d",
	Months: [12]string{"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember"},
}

var English = Locale{
	Name:       "en",
	FlatHeader: []string{"Date", "Start Time", "End Time", "Type", "Start KM", "End KM", "Distance", "Note"},
	Business:   "Business",
	Private:    "Private",
	DateLayout: "2006-01-02",
	TimeLayout: "15:04:05",
	MonthLabel: "Month",
	WeekLabel:  "Week %d",
	Months: [12]string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"},
}

var locales = map[string]Locale{
	German.Name:  German,
	English.Name: English,
}

// LookupLocale finds a locale by name
func LookupLocale(name string) (Locale, bool) {
	l, ok := locales[name]
	return l, ok
}

// LocaleNames lists the supported locale names in sorted order
func LocaleNames() []string {
	names := make([]string, 0, len(locales))
	for name := range locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeLabel returns the display label of a trip type
func (l Locale) TypeLabel(t domain.TripType) string {
	switch t {
	case domain.TripTypeBusiness:
		return l.Business
	case domain.TripTypePrivate:
		return l.Private
	default:
		return string(t)
	}
}

// MonthName returns the localized name of m
func (l Locale) MonthName(m time.Month) string {
	return l.Months[m-1]
}

// WeekName labels an ISO week, e.g. "KW 42"
func (l Locale) WeekName(week int) string {
	return fmt.Sprintf(l.WeekLabel, week)
}
