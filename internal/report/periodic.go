package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"mileage-logbook/internal/domain"
)

var periodicHeader = []string{"Period", "Type", "Business(km)", "Private(km)", "Total(km)"}

type monthKey struct {
	year  int
	month time.Month
}

type weekKey struct {
	year int
	week int
}

type weekGroup struct {
	key    weekKey
	totals Summary
}

type monthGroup struct {
	key    monthKey
	totals Summary
	weeks  []*weekGroup
	byWeek map[weekKey]*weekGroup
}

// ExportPeriodicReport renders trips grouped by calendar month and, inside
// each month, by ISO week. Months and weeks appear newest first. An empty
// collection renders as an empty string.
func ExportPeriodicReport(trips []domain.Trip, locale Locale) string {
	if len(trips) == 0 {
		return ""
	}

	sorted := make([]domain.Trip, len(trips))
	copy(sorted, trips)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.After(sorted[j].StartTime)
	})

	var months []*monthGroup
	byMonth := make(map[monthKey]*monthGroup)
	for _, t := range sorted {
		start := t.StartTime.Local()
		mk := monthKey{year: start.Year(), month: start.Month()}
		mg, ok := byMonth[mk]
		if !ok {
			mg = &monthGroup{key: mk, byWeek: make(map[weekKey]*weekGroup)}
			byMonth[mk] = mg
			months = append(months, mg)
		}
		mg.totals.add(t)

		year, week := ISOWeek(start)
		wk := weekKey{year: year, week: week}
		wg, ok := mg.byWeek[wk]
		if !ok {
			wg = &weekGroup{key: wk}
			mg.byWeek[wk] = wg
			mg.weeks = append(mg.weeks, wg)
		}
		wg.totals.add(t)
	}

	var b strings.Builder
	b.WriteString(FormatRow(periodicHeader...))
	for _, mg := range months {
		period := locale.MonthName(mg.key.month) + " " + strconv.Itoa(mg.key.year)
		b.WriteString(summaryRow(period, locale.MonthLabel, mg.totals))
		for _, wg := range mg.weeks {
			monday := ISOWeekMonday(wg.key.year, wg.key.week, time.Local)
			sunday := monday.AddDate(0, 0, 6)
			period := monday.Format(locale.DateLayout) + " - " + sunday.Format(locale.DateLayout)
			b.WriteString(summaryRow(period, locale.WeekName(wg.key.week), wg.totals))
		}
	}
	return b.String()
}

func summaryRow(period, label string, s Summary) string {
	return FormatRow(
		EscapeField(period),
		EscapeField(label),
		IntField(s.Business),
		IntField(s.Private),
		IntField(s.Total),
	)
}
