package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/fastfit/internal/models"
)

type stubReconcileUsers struct {
	users []models.User
	err   error
}

func (stub stubReconcileUsers) EachInBatches(ctx context.Context, batchSize int, fn func([]models.User) error) error {
	if stub.err != nil {
		return stub.err
	}
	for start := 0; start < len(stub.users); start += batchSize {
		end := min(start+batchSize, len(stub.users))
		if err := fn(stub.users[start:end]); err != nil {
			return err
		}
	}
	return nil
}

type recordingTicker struct {
	mu      sync.Mutex
	calls   []string
	failFor uint
}

func (ticker *recordingTicker) Tick(_ context.Context, userID uint, location *time.Location, autoTransitions bool) (FastingState, error) {
	ticker.mu.Lock()
	defer ticker.mu.Unlock()
	ticker.calls = append(ticker.calls, location.String())
	if userID == ticker.failFor {
		return FastingState{}, errors.New("tick failed")
	}
	return FastingState{}, nil
}

func TestReconcileAllSkipsFailingUsers(t *testing.T) {
	t.Parallel()

	users := stubReconcileUsers{users: []models.User{
		{ID: 1, Timezone: "Asia/Tokyo"},
		{ID: 2},
		{ID: 3, AutoTransitions: true},
	}}
	ticker := &recordingTicker{failFor: 2}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewReconcileService(users, ticker, time.UTC, time.Minute, logger)

	result, err := service.ReconcileAll(context.Background())
	if err != nil {
		t.Fatalf("ReconcileAll() unexpected error: %v", err)
	}
	if result.Processed != 2 || result.Failed != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	if ticker.calls[0] != "Asia/Tokyo" || ticker.calls[1] != "UTC" {
		t.Fatalf("unexpected locations %v", ticker.calls)
	}
}

func TestReconcileAllListFailure(t *testing.T) {
	t.Parallel()

	service := NewReconcileService(stubReconcileUsers{err: errors.New("db down")}, &recordingTicker{}, nil, 0, nil)
	if _, err := service.ReconcileAll(context.Background()); err == nil {
		t.Fatal("expected list error")
	}
}

func TestReconcileAllStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ticker := &recordingTicker{}
	service := NewReconcileService(stubReconcileUsers{users: []models.User{{ID: 1}, {ID: 2}}}, ticker, nil, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.ReconcileAll(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(ticker.calls) != 0 {
		t.Fatalf("expected no ticks, got %d", len(ticker.calls))
	}
}

func TestReconcileRunStopsWithContext(t *testing.T) {
	t.Parallel()

	ticker := &recordingTicker{}
	service := NewReconcileService(stubReconcileUsers{users: []models.User{{ID: 1}}}, ticker, nil, 10*time.Millisecond, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := service.Run(ctx); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
}
