package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/fastfit/internal/db"
	"github.com/terraincognita07/fastfit/internal/events"
	"github.com/terraincognita07/fastfit/internal/i18n"
	"github.com/terraincognita07/fastfit/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Set(value time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = value
}

type testEnv struct {
	app   *fiber.App
	repos *db.Repositories
	clock *testClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "fastfit-api-test.db"), nil)
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &testClock{now: time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)}
	repos := db.NewRepositories(database)

	catalog := services.NewCatalogService(repos.Exercises, logger)
	require.NoError(t, catalog.SeedDefaults())

	fasting := services.NewFastingService(
		services.NewFastingStateStore(repos.FastingStates),
		events.NopPublisher{},
		logger,
		services.MustParseTimeOfDay("12:00"),
	).WithClock(clock.Now)
	workouts := services.NewWorkoutService(repos.Users, repos.WorkoutLogs, catalog, fasting, logger).WithClock(clock.Now)

	manager, err := i18n.NewEmbeddedManager("en")
	require.NoError(t, err)

	handler, err := NewHandler(Dependencies{
		Auth:      services.NewAuthService(repos.Users),
		Fasting:   fasting,
		Workouts:  workouts,
		Catalog:   catalog,
		Export:    services.NewExportService(fasting, repos.WorkoutLogs),
		Stats:     services.NewStatsService(fasting, repos.WorkoutLogs),
		I18n:      manager,
		Logger:    logger,
		SecretKey: testSecretKey,
		Location:  time.UTC,
	})
	require.NoError(t, err)
	handler.now = clock.Now

	app := fiber.New()
	RegisterRoutes(app, handler)
	return &testEnv{app: app, repos: repos, clock: clock}
}

type testRequest struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func (env *testEnv) do(t *testing.T, request testRequest) (int, map[string]any) {
	t.Helper()
	status, raw := env.doRaw(t, request)
	payload := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &payload), string(raw))
	}
	return status, payload
}

func (env *testEnv) doRaw(t *testing.T, request testRequest) (int, []byte) {
	t.Helper()

	var body io.Reader
	if request.body != nil {
		encoded, err := json.Marshal(request.body)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	httpRequest := httptest.NewRequest(request.method, request.path, body)
	if request.body != nil {
		httpRequest.Header.Set("Content-Type", "application/json")
	}
	if request.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+request.token)
	}
	for key, value := range request.headers {
		httpRequest.Header.Set(key, value)
	}

	response, err := env.app.Test(httpRequest, -1)
	require.NoError(t, err)
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	return response.StatusCode, raw
}

func (env *testEnv) register(t *testing.T, email string) string {
	t.Helper()
	status, payload := env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   fiber.Map{"email": email, "password": "StrongPass1"},
	})
	require.Equal(t, http.StatusCreated, status, payload)
	token, ok := payload["token"].(string)
	require.True(t, ok)
	return token
}
