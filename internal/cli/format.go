package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"mileage-logbook/internal/domain"
	"mileage-logbook/internal/report"
)

func formatElapsed(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %02dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func (a *App) newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
}

// writeTrips prints trips as a table, newest first as stored.
func (a *App) writeTrips(trips []domain.Trip) error {
	w := a.newTable()
	fmt.Fprintln(w, "ID\tSTART\tEND\tTYPE\tFROM\tTO\tKM\tNOTE")
	for _, t := range trips {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			t.ID,
			a.formatTime(t.StartTime),
			t.EndTime.Local().Format("15:04"),
			a.typeLabel(t.Type),
			t.StartKm,
			t.EndKm,
			t.Distance,
			t.Note)
	}
	return w.Flush()
}

func (a *App) writeTrip(t domain.Trip) error {
	w := a.newTable()
	fmt.Fprintf(w, "ID:\t%d\n", t.ID)
	fmt.Fprintf(w, "Type:\t%s\n", a.typeLabel(t.Type))
	fmt.Fprintf(w, "Start:\t%s\n", a.formatTime(t.StartTime))
	fmt.Fprintf(w, "End:\t%s (%s)\n", a.formatTime(t.EndTime), formatElapsed(t.EndTime.Sub(t.StartTime)))
	fmt.Fprintf(w, "Odometer:\t%d - %d km\n", t.StartKm, t.EndKm)
	fmt.Fprintf(w, "Distance:\t%d km\n", t.Distance)
	fmt.Fprintf(w, "Note:\t%s\n", t.Note)
	return w.Flush()
}

type summaryLine struct {
	label   string
	summary report.Summary
}

func (a *App) writeSummaries(lines []summaryLine) error {
	w := a.newTable()
	fmt.Fprintf(w, "PERIOD\t%s\t%s\tTOTAL\n", a.locale().Business, a.locale().Private)
	for _, l := range lines {
		fmt.Fprintf(w, "%s\t%s km\t%s km\t%s km\n",
			l.label,
			strconv.Itoa(l.summary.Business),
			strconv.Itoa(l.summary.Private),
			strconv.Itoa(l.summary.Total))
	}
	return w.Flush()
}
