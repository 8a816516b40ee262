package report

import "time"

// ISOWeek returns the ISO 8601 year and week number of t in t's location.
// The date is moved to the Thursday of its Monday-based week, and that
// Thursday's year is the ISO year.
func ISOWeek(t time.Time) (year, week int) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	y, m, d := t.Date()
	thursday := time.Date(y, m, d+4-weekday, 0, 0, 0, 0, time.UTC)
	return thursday.Year(), (thursday.YearDay()-1)/7 + 1
}

// ISOWeekMonday returns Monday 00:00 of the given ISO week in loc.
// Week 1 starts on the Monday on or before January 4.
func ISOWeekMonday(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return time.Date(year, time.January, 4-(weekday-1)+(week-1)*7, 0, 0, 0, 0, loc)
}
