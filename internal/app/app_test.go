package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexipath/internal/config"
	"github.com/heartmarshall/lexipath/internal/transport/rest"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()

	lookups := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(lookups.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 8080, ShutdownTimeout: time.Second, ExternalRateLimit: 100},
		Storage: config.StorageConfig{Driver: driver, Codec: config.CodecJSON},
		Import:  config.ImportConfig{FetchTimeout: time.Second, MaxBytes: 1 << 20},
		Enrichment: config.EnrichmentConfig{
			DictionaryURL:      lookups.URL,
			SynonymURL:         lookups.URL,
			Timeout:            time.Second,
			MaxSynonyms:        10,
			MaxFetchedExamples: 3,
			MaxExamples:        5,
			Workers:            2,
		},
		Log:  config.LogConfig{Level: "info", Format: "text"},
		CORS: config.CORSConfig{AllowedOrigins: "*"},
	}
	switch driver {
	case config.DriverBadger:
		cfg.Storage.Path = t.TempDir()
	case config.DriverSQLite:
		cfg.Storage.Path = filepath.Join(t.TempDir(), "nested", "lexipath.db")
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestApp(t *testing.T, driver string) *App {
	t.Helper()

	a, err := New(context.Background(), testConfig(t, driver), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_HTTPRoundTrip(t *testing.T) {
	for _, driver := range []string{config.DriverMemory, config.DriverBadger, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			h := newTestApp(t, driver).Handler()

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vocabulary/import", nil))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/vocabulary/id-eloquent/status",
				strings.NewReader(`{"status":"mastered"}`)))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vocabulary?status=mastered", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var list struct {
				Items []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"items"`
				Total int `json:"total"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
			require.Equal(t, 1, list.Total)
			assert.Equal(t, "id-eloquent", list.Items[0].ID)

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, http.StatusOK, rec.Code)

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var health rest.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
			require.NotNil(t, health.Storage)
			assert.Equal(t, driver, health.Storage.Driver)
			require.NotNil(t, health.Collection)
			assert.Equal(t, 1, health.Collection.Mastered)
			assert.Equal(t, health.Collection.Words, health.Collection.Mastered+health.Collection.Unmastered)
		})
	}
}

func TestApp_AddWordWithUnavailableLookups(t *testing.T) {
	h := newTestApp(t, config.DriverMemory).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vocabulary", strings.NewReader(`{"word":"scrutiny"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vocabulary", strings.NewReader(`{"word":"Scrutiny"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestNew_UnknownCodec(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory)
	cfg.Storage.Codec = "gob"

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Error(t, err)
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	a := newTestApp(t, config.DriverMemory)
	a.Config.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
