package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bacilogs/bacilogs/backend/internal/push"
	"github.com/bacilogs/bacilogs/shared/config"
	"github.com/bacilogs/bacilogs/shared/domain"
)

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func decodeProbe(t *testing.T, rr *httptest.ResponseRecorder) probeStatus {
	t.Helper()
	var status probeStatus
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&status))
	return status
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&MockAuthService{}, &MockPostService{})
	rr := httptest.NewRecorder()

	h.Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "up", decodeProbe(t, rr).Status)
}

func TestReady(t *testing.T) {
	cfg := testConfig()
	cfg.Public.Storage = config.StorageMemory

	t.Run("reports the pushed snapshot", func(t *testing.T) {
		hub := push.NewHub()
		hub.Publish([]domain.Post{{Id: "a"}, {Id: "b"}})
		h := New(&MockAuthService{}, &MockPostService{}, hub, &MockHealthChecker{}, cfg)
		rr := httptest.NewRecorder()

		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		status := decodeProbe(t, rr)
		assert.Equal(t, "ready", status.Status)
		assert.Equal(t, config.StorageMemory, status.Storage)
		assert.EqualValues(t, 1, status.Sequence)
		assert.Equal(t, 2, status.Posts)
	})

	t.Run("503 when the post storage is down", func(t *testing.T) {
		h := New(&MockAuthService{}, &MockPostService{}, push.NewHub(), &MockHealthChecker{
			PingFunc: func(ctx context.Context) error { return errors.New("connection refused") },
		}, cfg)
		rr := httptest.NewRecorder()

		h.Ready(rr, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.Equal(t, "post storage unreachable", decodeProbe(t, rr).Status)
	})
}
