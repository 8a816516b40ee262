package cli

import (
	"context"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// ListCommand handles the list command
type ListCommand struct {
	app   *App
	limit int
	all   bool
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints the most recent trips, newest first
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	trips := c.app.ledger.Trips()
	if len(trips) == 0 {
		c.app.printf("No trips recorded\n")
		return nil
	}

	limit := c.limit
	if limit <= 0 {
		limit = c.app.config.Display.ListLimit
	}
	shown := trips
	if !c.all && len(trips) > limit {
		shown = trips[:limit]
	}

	if err := c.app.writeTrips(shown); err != nil {
		return err
	}
	if len(shown) < len(trips) {
		c.app.printf("\nShowing %d of %d trips. Use --all to see every trip.\n", len(shown), len(trips))
	}
	return nil
}

// ShowCommand prints one trip in full
type ShowCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewShowCommand creates a new show command handler
func NewShowCommand(app *App) *ShowCommand {
	return &ShowCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the show command
func (c *ShowCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "show", "usage: lb show ID")
	}
	id, err := validation.ParseTripID(args[0])
	if err != nil {
		return c.errorHandler.Handle("show trip", err)
	}
	trip, ok := c.app.ledger.FindByID(id)
	if !ok {
		return c.errorHandler.Handle("show trip", errors.NewTripNotFoundError(id))
	}
	return c.app.writeTrip(trip)
}
