package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranshivaraju/fieldplanner/internal/cache"
	"github.com/kiranshivaraju/fieldplanner/internal/config"
	"github.com/kiranshivaraju/fieldplanner/internal/store"
)

// ─── mock repository ─────────────────────────────────────────────────────────

type testRepo struct {
	pingErr error
}

func (s *testRepo) Ping(_ context.Context) error                       { return s.pingErr }
func (s *testRepo) Close() error                                       { return nil }
func (s *testRepo) Get(_ context.Context, _ string) ([]byte, error)    { return nil, store.ErrNotFound }
func (s *testRepo) Create(_ context.Context, _ string, _ []byte) error { return nil }
func (s *testRepo) Put(_ context.Context, _ string, _ []byte) error    { return nil }
func (s *testRepo) Delete(_ context.Context, _ string) error           { return nil }
func (s *testRepo) ListByPrefix(_ context.Context, _ string) ([]store.Entry, error) {
	return nil, nil
}

var _ store.Repository = (*testRepo)(nil)

// ─── mock cache ──────────────────────────────────────────────────────────────

type testCache struct {
	pingErr error
}

func (c *testCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error { return nil }
func (c *testCache) Get(_ context.Context, _ string) ([]byte, bool, error)            { return nil, false, nil }
func (c *testCache) Delete(_ context.Context, _ string) error                         { return nil }
func (c *testCache) Ping(_ context.Context) error                                     { return c.pingErr }
func (c *testCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

var _ cache.Cache = (*testCache)(nil)

// ─── health handler tests ───────────────────────────────────────────────────

func TestHealthHandler_AllOK(t *testing.T) {
	h := healthHandler(&testRepo{}, &testCache{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	services := data["services"].(map[string]any)
	assert.Equal(t, "ok", services["database"])
	assert.Equal(t, "ok", services["cache"])
}

func TestHealthHandler_DatabaseDegraded(t *testing.T) {
	h := healthHandler(&testRepo{pingErr: errors.New("connection refused")}, &testCache{})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "DEGRADED", errObj["code"])
	details := errObj["details"].(map[string]any)
	assert.Equal(t, "degraded", details["database"])
	assert.Equal(t, "ok", details["cache"])
}

func TestHealthHandler_CacheDegraded(t *testing.T) {
	h := healthHandler(&testRepo{}, &testCache{pingErr: errors.New("redis down")})

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()
	h(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// ─── wiring helpers ─────────────────────────────────────────────────────────

func TestSchedulerFromConfig(t *testing.T) {
	s := schedulerFromConfig(config.ScheduleConfig{
		FirstStart:    "08:00",
		FirstEnd:      "09:00",
		SequenceStart: "09:00",
		Duration:      90 * time.Minute,
	})

	require.NoError(t, s.Validate())
	slots := s.DeriveInitial(nil, 2)
	assert.Equal(t, "08:00", slots[0].Start)
	assert.Equal(t, "09:00", slots[1].Start)
	assert.Equal(t, "10:30", slots[1].End)
}

func TestOpenRepository_SQLite(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "planner.db"),
	}}

	repo, err := openRepository(context.Background(), cfg)
	require.NoError(t, err)
	defer repo.Close()

	assert.NoError(t, repo.Ping(context.Background()))
}

// ─── run() config validation tests ──────────────────────────────────────────

func TestRun_FailsOnMissingConfig(t *testing.T) {
	// Clear all env vars that config.Load() requires
	for _, key := range []string{
		"DATABASE_URL", "REDIS_URL", "AI_PROVIDER",
	} {
		t.Setenv(key, "")
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestRun_FailsOnInvalidSlotSettings(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "planner.db"))
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("AI_PROVIDER", "ollama")
	t.Setenv("SLOT_FIRST_START", "25:99")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid slot settings")
}

func TestRun_FailsOnInvalidDatabaseURL(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "not-a-valid-url")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("AI_PROVIDER", "ollama")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect database")
}

func TestRun_FailsOnUnreachableRedis(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "planner.db"))
	t.Setenv("REDIS_URL", "redis://127.0.0.1:1")
	t.Setenv("AI_PROVIDER", "ollama")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis")
}

// ─── shutdown timeout constant test ─────────────────────────────────────────

func TestShutdownTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, shutdownTimeout)
}
