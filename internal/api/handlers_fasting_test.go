package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cycleState(t *testing.T, payload map[string]any) string {
	t.Helper()
	cycle, ok := payload["currentCycle"].(map[string]any)
	require.True(t, ok, "expected currentCycle in %v", payload)
	state, _ := cycle["state"].(string)
	return state
}

func TestFastingCycleLifecycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "faster@example.com")

	status, payload := env.do(t, testRequest{method: http.MethodGet, path: "/api/fasting/status", token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "16:8", payload["protocol"])
	assert.Equal(t, "pending", cycleState(t, payload))
	assert.Equal(t, true, payload["canChangePlan"])
	phase := payload["phase"].(map[string]any)
	assert.Equal(t, "fasting", phase["phase"])

	status, payload = env.do(t, testRequest{method: http.MethodPost, path: "/api/fasting/start", token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fasting", cycleState(t, payload))
	assert.Equal(t, false, payload["canChangePlan"])

	status, payload = env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/fasting/plan",
		token:  token,
		body:   fiber.Map{"protocol": "18:6", "eatingStart": "13:00"},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "plan_change_rejected", payload["error"])

	env.clock.Set(time.Date(2026, time.March, 10, 12, 5, 0, 0, time.UTC))
	status, payload = env.do(t, testRequest{method: http.MethodPost, path: "/api/fasting/eat", token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "eating", cycleState(t, payload))

	env.clock.Set(time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC))
	status, payload = env.do(t, testRequest{method: http.MethodPost, path: "/api/fasting/complete", token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", cycleState(t, payload))
	assert.Equal(t, "Completed", payload["cycleLabel"])

	// Transitions on a closed cycle are ignored rather than rejected.
	status, payload = env.do(t, testRequest{method: http.MethodPost, path: "/api/fasting/start", token: token})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", cycleState(t, payload))

	status, payload = env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/fasting/plan",
		token:  token,
		body:   fiber.Map{"protocol": "18:6"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "18:6", payload["protocol"])
	window := payload["window"].(map[string]any)
	assert.Equal(t, "12:00", window["eatingStart"])
	assert.Equal(t, "18:00", window["eatingEnd"])

	status, payload = env.do(t, testRequest{method: http.MethodGet, path: "/api/fasting/history", token: token})
	require.Equal(t, http.StatusOK, status)
	cycles := payload["cycles"].([]any)
	require.Len(t, cycles, 1)
	assert.Equal(t, "2026-03-10", cycles[0].(map[string]any)["date"])
}

func TestFastingTransitionOutOfOrderIsConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "faster@example.com")

	status, payload := env.do(t, testRequest{method: http.MethodPost, path: "/api/fasting/eat", token: token})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "invalid_transition", payload["error"])
}

func TestUpdatePlanRejectsUnknownProtocolAndBadTime(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "faster@example.com")

	status, payload := env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/fasting/plan",
		token:  token,
		body:   fiber.Map{"protocol": "15:9", "eatingStart": "12:00"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "unknown_protocol", payload["error"])

	status, payload = env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/fasting/plan",
		token:  token,
		body:   fiber.Map{"protocol": "16:8", "eatingStart": "25:00"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_time_format", payload["error"])
}

func TestListProtocolsIsLocalized(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "faster@example.com")

	status, raw := env.doRaw(t, testRequest{
		method:  http.MethodGet,
		path:    "/api/fasting/protocols",
		token:   token,
		headers: map[string]string{"Accept-Language": "ru"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "16:8 классика")
}

func TestHistoryRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "faster@example.com")

	status, _ := env.do(t, testRequest{
		method: http.MethodGet,
		path:   "/api/fasting/history?from=2026-03-10&to=2026-03-01",
		token:  token,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
