package cli

import (
	"context"
	"fmt"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/validation"
)

// DeleteCommand removes one trip after confirmation
type DeleteCommand struct {
	app          *App
	errorHandler *ErrorHandler
	yes          bool
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: lb delete ID")
	}
	id, err := validation.ParseTripID(args[0])
	if err != nil {
		return c.errorHandler.Handle("delete trip", err)
	}
	trip, ok := c.app.ledger.FindByID(id)
	if !ok {
		return c.errorHandler.Handle("delete trip", errors.NewTripNotFoundError(id))
	}

	question := fmt.Sprintf("Delete the %s trip of %s (%d km)?",
		c.app.typeLabel(trip.Type), c.app.formatTime(trip.StartTime), trip.Distance)
	confirmed, err := c.app.confirm(question, c.yes)
	if err != nil {
		return c.errorHandler.Handle("delete trip", err)
	}
	if !confirmed {
		c.app.printf("Delete cancelled.\n")
		return nil
	}

	removed, err := c.app.ledger.DeleteTrip(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("delete trip", err)
	}
	if !removed {
		return c.errorHandler.Handle("delete trip", errors.NewTripNotFoundError(id))
	}
	c.app.printf("Deleted trip %d\n", id)
	return nil
}

// ClearCommand removes every trip but keeps the odometer and settings
type ClearCommand struct {
	app          *App
	errorHandler *ErrorHandler
	yes          bool
}

// NewClearCommand creates a new clear command handler
func NewClearCommand(app *App) *ClearCommand {
	return &ClearCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the clear command
func (c *ClearCommand) Execute(ctx context.Context, args []string) error {
	count := len(c.app.ledger.Trips())
	if count == 0 {
		c.app.printf("No trips recorded\n")
		return nil
	}

	confirmed, err := c.app.confirm(fmt.Sprintf("Delete all %d trips? The odometer and settings are kept.", count), c.yes)
	if err != nil {
		return c.errorHandler.Handle("clear trips", err)
	}
	if !confirmed {
		c.app.printf("Clear cancelled.\n")
		return nil
	}

	if err := c.app.ledger.ClearAllTrips(ctx); err != nil {
		return c.errorHandler.Handle("clear trips", err)
	}
	c.app.printf("Deleted %d trips\n", count)
	return nil
}

// ResetCommand erases the whole logbook
type ResetCommand struct {
	app          *App
	errorHandler *ErrorHandler
	yes          bool
}

// NewResetCommand creates a new reset command handler
func NewResetCommand(app *App) *ResetCommand {
	return &ResetCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the reset command
func (c *ResetCommand) Execute(ctx context.Context, args []string) error {
	confirmed, err := c.app.confirm("Erase the whole logbook, including odometer, open trip and settings?", c.yes)
	if err != nil {
		return c.errorHandler.Handle("reset logbook", err)
	}
	if !confirmed {
		c.app.printf("Reset cancelled.\n")
		return nil
	}

	if err := c.app.ledger.ResetAll(ctx); err != nil {
		return c.errorHandler.Handle("reset logbook", err)
	}
	c.app.printf("Logbook reset\n")
	return nil
}
