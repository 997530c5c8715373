package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chungtay/config"
	"chungtay/database/seeders"
	"chungtay/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect(ctx)
}

// chungtay db:index
var dbIndexCmd = &cobra.Command{
	Use:   "db:index",
	Short: "Create the collection indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		fmt.Println("Creating indexes…")
		return database.EnsureIndexes(ctx)
	},
}

// chungtay db:seed
var dbSeedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the initial administrator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := bootDB(ctx); err != nil {
			return err
		}
		defer database.Disconnect(ctx) //nolint:errcheck

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx)
	},
}
