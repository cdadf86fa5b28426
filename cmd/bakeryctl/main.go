// Command bakeryctl performs administrative tasks against the storefront
// database: seeding the catalog, creating admin accounts, and approving
// registrations.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/opryshko/bakehouse/internal/storage/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var databaseURL string

	root := &cobra.Command{
		Use:           "bakeryctl",
		Short:         "Administrative tasks for the bakehouse storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "",
		"PostgreSQL connection URL (or DATABASE_URL env)")

	root.AddCommand(
		seedCmd(&databaseURL),
		createAdminCmd(&databaseURL),
		approveUserCmd(&databaseURL),
	)
	return root
}

// connect resolves the database URL, opens a pool, and runs migrations so
// every subcommand works against an up-to-date schema.
func connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return nil, errors.New("database URL is required: set --database-url or DATABASE_URL")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return pool, nil
}
