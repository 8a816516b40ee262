package report

import (
	"strings"
	"time"

	"mileage-logbook/internal/domain"
)

// ExportFlatCSV renders one row per trip in the order given, after a fixed
// header. Dates and times are shown in the local time zone. The note column
// is always quoted.
func ExportFlatCSV(trips []domain.Trip, locale Locale) string {
	var b strings.Builder
	header := make([]string, len(locale.FlatHeader))
	for i, h := range locale.FlatHeader {
		header[i] = EscapeField(h)
	}
	b.WriteString(FormatRow(header...))

	for _, t := range trips {
		start := t.StartTime.Local()
		end := t.EndTime.Local()
		b.WriteString(FormatRow(
			EscapeField(start.Format(locale.DateLayout)),
			EscapeField(start.Format(locale.TimeLayout)),
			EscapeField(end.Format(locale.TimeLayout)),
			EscapeField(locale.TypeLabel(t.Type)),
			IntField(t.StartKm),
			IntField(t.EndKm),
			IntField(t.Distance),
			QuoteField(t.Note),
		))
	}
	return b.String()
}

// ExportFilename names an export file after its prefix and the date of now.
func ExportFilename(prefix string, now time.Time) string {
	return prefix + "_" + now.Format(domain.DateLayout) + ".csv"
}
