package domain

import "time"

// DateLayout is the persisted layout of calendar dates.
const DateLayout = "2006-01-02"

// Default settings, used until the user stores their own.
var (
	DefaultPrivatePrice = MustParseMoney("251.00")
	DefaultStartDate    = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.Local)
)

// Settings configures the private-cost analysis. They have no effect on the ledger itself.
type Settings struct {
	PrivatePrice Money
	StartDate    time.Time
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		PrivatePrice: DefaultPrivatePrice,
		StartDate:    DefaultStartDate,
	}
}
