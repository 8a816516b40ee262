// Package report aggregates trips into distance summaries, CSV exports and
// the private-cost analysis. Every function is pure and recomputes from the
// full trip collection it is given.
package report

import (
	"time"

	"mileage-logbook/internal/domain"
)

// Summary holds distances in kilometres grouped by trip type.
// Total is always Business + Private.
type Summary struct {
	Business int `json:"business"`
	Private  int `json:"private"`
	Total    int `json:"total"`
}

// SummarizeAll sums the distance of every trip by type.
func SummarizeAll(trips []domain.Trip) Summary {
	return SummarizeInRange(trips, func(time.Time) bool { return true })
}

// SummarizeInRange sums the distance of the trips whose start time satisfies in.
func SummarizeInRange(trips []domain.Trip, in func(time.Time) bool) Summary {
	var s Summary
	for _, t := range trips {
		if in(t.StartTime) {
			s.add(t)
		}
	}
	return s
}

func (s *Summary) add(t domain.Trip) {
	switch t.Type {
	case domain.TripTypeBusiness:
		s.Business += t.Distance
	case domain.TripTypePrivate:
		s.Private += t.Distance
	}
	s.Total = s.Business + s.Private
}

// WeekStart returns Monday 00:00 of the week containing now, in now's location.
// Sunday belongs to the week that started six days earlier.
func WeekStart(now time.Time) time.Time {
	sinceMonday := int(now.Weekday()) - 1
	if now.Weekday() == time.Sunday {
		sinceMonday = 6
	}
	y, m, d := now.Date()
	return time.Date(y, m, d-sinceMonday, 0, 0, 0, 0, now.Location())
}

// MonthStart returns the first day of now's month at 00:00, in now's location.
func MonthStart(now time.Time) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
}

// SummarizeWeek sums the trips started between WeekStart(now) and now.
func SummarizeWeek(trips []domain.Trip, now time.Time) Summary {
	return SummarizeInRange(trips, Between(WeekStart(now), now))
}

// SummarizeMonth sums the trips started between MonthStart(now) and now.
func SummarizeMonth(trips []domain.Trip, now time.Time) Summary {
	return SummarizeInRange(trips, Between(MonthStart(now), now))
}

// Between returns a predicate matching instants in the closed range [from, to].
func Between(from, to time.Time) func(time.Time) bool {
	return func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}
}
