package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mileage-logbook/internal/errors"
	"mileage-logbook/internal/ledger"
)

// BackupCommand writes every persisted key to a JSON document
type BackupCommand struct {
	app          *App
	errorHandler *ErrorHandler
}

// NewBackupCommand creates a new backup command handler
func NewBackupCommand(app *App) *BackupCommand {
	return &BackupCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute writes the backup to the file named by the only argument, or to stdout
func (c *BackupCommand) Execute(ctx context.Context, args []string) error {
	target := StdoutTarget
	if len(args) > 0 {
		target = args[0]
	}

	state, err := c.app.ledger.Snapshot(ctx)
	if err != nil {
		return c.errorHandler.Handle("back up logbook", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return c.errorHandler.Handle("back up logbook", errors.NewStorageError("encode backup", err))
	}
	data = append(data, '\n')

	if target == StdoutTarget {
		_, err := c.app.out.Write(data)
		return err
	}
	if err := os.WriteFile(target, data, 0o600); err != nil {
		return c.errorHandler.Handle("back up logbook", errors.NewStorageError("write backup "+target, err).WithContext("path", target))
	}
	c.app.printf("Backed up %d trips to %s\n", len(state.Trips), target)
	return nil
}

// RestoreCommand replaces the logbook with a backup
type RestoreCommand struct {
	app          *App
	errorHandler *ErrorHandler
	yes          bool
}

// NewRestoreCommand creates a new restore command handler
func NewRestoreCommand(app *App) *RestoreCommand {
	return &RestoreCommand{app: app, errorHandler: NewErrorHandler()}
}

// Execute runs the restore command. Reading the backup from stdin needs --yes
// because the confirmation prompt reads from stdin too.
func (c *RestoreCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "restore", "usage: lb restore FILE")
	}

	var data []byte
	var err error
	if args[0] == StdoutTarget {
		if !c.yes {
			return c.errorHandler.Handle("restore logbook",
				errors.NewInvalidInputError("file", args[0], "reading the backup from stdin requires --yes"))
		}
		data, err = io.ReadAll(c.app.in)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return c.errorHandler.Handle("restore logbook", errors.NewInvalidInputError("file", args[0], err.Error()))
	}

	var state ledger.State
	if err := json.Unmarshal(data, &state); err != nil {
		return c.errorHandler.Handle("restore logbook",
			errors.NewInvalidInputError("file", args[0], "not a logbook backup: "+err.Error()))
	}

	question := fmt.Sprintf("Replace the current logbook with the backup (%d trips)?", len(state.Trips))
	confirmed, err := c.app.confirm(question, c.yes)
	if err != nil {
		return c.errorHandler.Handle("restore logbook", err)
	}
	if !confirmed {
		c.app.printf("Restore cancelled.\n")
		return nil
	}

	if err := c.app.ledger.Restore(ctx, state); err != nil {
		return c.errorHandler.Handle("restore logbook", err)
	}
	c.app.printf("Restored %d trips, odometer at %d km\n", len(c.app.ledger.Trips()), c.app.ledger.CurrentKm())
	return nil
}
