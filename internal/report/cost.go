package report

import (
	"time"

	"mileage-logbook/internal/domain"
)

// PrivateCost is the flat monthly price for private use set against the
// private kilometres driven since the tracking start date.
type PrivateCost struct {
	Since        time.Time    `json:"since"`
	Months       int          `json:"months"`
	MonthlyPrice domain.Money `json:"monthlyPrice"`
	PrivateKm    int          `json:"privateKm"`
	TotalCost    domain.Money `json:"totalCost"`
	CostPerKm    domain.Money `json:"costPerKm"`
}

// AnalyzePrivateCost charges the private price once per calendar month from
// the start date up to and including now's month. Cost per km is zero when
// no private kilometres were driven.
func AnalyzePrivateCost(trips []domain.Trip, settings domain.Settings, now time.Time) PrivateCost {
	y, m, d := settings.StartDate.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	months := 0
	if !now.Before(since) {
		months = (now.Year()-since.Year())*12 + int(now.Month()-since.Month()) + 1
	}

	privateKm := SummarizeInRange(trips, Between(since, now)).Private
	total := settings.PrivatePrice.Times(months)

	return PrivateCost{
		Since:        since,
		Months:       months,
		MonthlyPrice: settings.PrivatePrice,
		PrivateKm:    privateKm,
		TotalCost:    total,
		CostPerKm:    total.Per(privateKm),
	}
}
