package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
	"github.com/terraincognita07/fastfit/internal/observability"
)

const reconcileBatchSize = 200

type ReconcileUserLister interface {
	EachInBatches(ctx context.Context, batchSize int, fn func([]models.User) error) error
}

type FastingTicker interface {
	Tick(ctx context.Context, userID uint, location *time.Location, autoTransitions bool) (FastingState, error)
}

type ReconcileResult struct {
	Processed int
	Failed    int
}

// ReconcileService runs the daily reset and missed-window checks for every user so that
// state advances even when nobody opens the app.
type ReconcileService struct {
	users    ReconcileUserLister
	fasting  FastingTicker
	location *time.Location
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewReconcileService(users ReconcileUserLister, fasting FastingTicker, location *time.Location, interval time.Duration, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReconcileService{
		users:    users,
		fasting:  fasting,
		location: resolveLocation(location),
		interval: interval,
		logger:   logger.With("component", "reconcile"),
		now:      time.Now,
	}
}

// ReconcileAll ticks every user once. A failing user is logged and skipped.
func (service *ReconcileService) ReconcileAll(ctx context.Context) (ReconcileResult, error) {
	started := service.now()
	result := ReconcileResult{}
	err := service.users.EachInBatches(ctx, reconcileBatchSize, func(users []models.User) error {
		for _, user := range users {
			if err := ctx.Err(); err != nil {
				return err
			}
			location := UserLocation(user, service.location)
			if _, err := service.fasting.Tick(ctx, user.ID, location, user.AutoTransitions); err != nil {
				result.Failed++
				service.logger.WarnContext(ctx, "reconcile user failed",
					slog.Uint64("user_id", uint64(user.ID)),
					slog.String("error", err.Error()),
				)
				continue
			}
			result.Processed++
		}
		return nil
	})
	if err != nil {
		observability.RecordReconcile(started, service.now(), result.Failed+1)
		return result, err
	}

	observability.RecordReconcile(started, service.now(), result.Failed)
	service.logger.DebugContext(ctx, "reconcile pass finished",
		slog.Int("processed", result.Processed),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

// Run reconciles on every interval until ctx is cancelled.
func (service *ReconcileService) Run(ctx context.Context) error {
	ticker := time.NewTicker(service.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := service.ReconcileAll(ctx); err != nil && ctx.Err() == nil {
				service.logger.ErrorContext(ctx, "reconcile pass failed", slog.String("error", err.Error()))
			}
		}
	}
}
