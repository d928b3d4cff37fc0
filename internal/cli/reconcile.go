package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/terraincognita07/fastfit/internal/db"
	"github.com/terraincognita07/fastfit/internal/events"
	"github.com/terraincognita07/fastfit/internal/services"
)

// RunReconcileCommand applies one reconcile pass over every user and prints a summary.
func RunReconcileCommand(ctx context.Context, dbPath string, logger *slog.Logger, location *time.Location, defaultEatingStart services.TimeOfDay, out io.Writer) error {
	database, err := db.OpenSQLite(dbPath, logger)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}
	repos := db.NewRepositories(database)

	fasting := services.NewFastingService(
		services.NewFastingStateStore(repos.FastingStates),
		events.NopPublisher{},
		logger,
		defaultEatingStart,
	)
	reconciler := services.NewReconcileService(repos.Users, fasting, location, time.Minute, logger)

	result, err := reconciler.ReconcileAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Reconciled %d users (%d failed)\n", result.Processed, result.Failed)
	return nil
}
