package main

import (
	"context"
	"fmt"
	"os"

	"mileage-logbook/internal/cli"
	"mileage-logbook/internal/config"
	"mileage-logbook/internal/storage"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Create store factory based on environment
	env := config.GetEnvironment()
	root := cli.NewRootCommand(cli.Deps{
		Config: cfg,
		Open: func(cfg *config.Config) (storage.Store, error) {
			return config.NewStoreFactory(env, cfg).CreateStore()
		},
	})

	err = root.ExecuteContext(context.Background(), os.Args[1:])
	if closeErr := root.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
