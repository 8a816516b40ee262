package cli

import (
	"context"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// EndCommand closes the open trip at a new odometer reading
type EndCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewEndCommand creates a new end command handler
func NewEndCommand(app *App) *EndCommand {
	return &EndCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the end command
func (c *EndCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "end", "usage: lb end KM")
	}
	endKm, err := validation.ParseOdometer("end_km", args[0])
	if err != nil {
		return c.errorHandler.Handle("end trip", err)
	}

	trip, err := c.app.ledger.EndTrip(ctx, endKm)
	if err != nil {
		return c.errorHandler.Handle("end trip", err)
	}

	c.app.printf("Ended %s trip: %d - %d km, %d km driven\n",
		c.app.typeLabel(trip.Type), trip.StartKm, trip.EndKm, trip.Distance)
	return nil
}

// CancelCommand discards the open trip
type CancelCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewCancelCommand creates a new cancel command handler
func NewCancelCommand(app *App) *CancelCommand {
	return &CancelCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the cancel command
func (c *CancelCommand) Execute(ctx context.Context, args []string) error {
	active, ok := c.app.ledger.ActiveTrip()
	if err := c.app.ledger.CancelTrip(ctx); err != nil {
		return c.errorHandler.Handle("cancel trip", err)
	}
	if ok {
		c.app.printf("Cancelled the %s trip started at %d km\n", c.app.typeLabel(active.Type), active.StartKm)
	}
	return nil
}
