package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settleup/internal/auth"
	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/service"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Storage: config.StorageConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "server.db"),
		},
		Auth:   config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour},
		Ledger: config.LedgerConfig{DueAfter: 7 * 24 * time.Hour},
		Log:    config.LogConfig{Level: "info", Format: "text"},
	}
}

func startServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()
	cfg := testConfig(t)

	store, err := OpenStore(context.Background(), cfg.Storage)
	require.NoError(t, err)

	ts := httptest.NewServer(New(cfg, store).Handler())
	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return ts, cfg
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestOpenStore_RejectsUnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StorageConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unknown storage.driver")
}

func TestHealthz(t *testing.T) {
	ts, _ := startServer(t)

	code, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)
}

func TestLedgerOverHTTP(t *testing.T) {
	ts, cfg := startServer(t)
	ctx := context.Background()
	client := service.NewLedgerServiceClient(http.DefaultClient, ts.URL)

	split := models.SplitSpecification{
		Description: "Dinner",
		TotalAmount: money.MustParse("900"),
		Strategy:    models.StrategyEqual,
		Participants: []models.Participant{
			{ID: "alice", Name: "Alice", Contact: "alice@example.com", AmountPaid: money.MustParse("900")},
			{ID: "bob", Name: "Bob", Contact: "bob@example.com"},
			{ID: "carol", Name: "Carol", Contact: "carol@example.com"},
		},
	}

	// Pure calculator calls are public.
	validated, err := client.ValidateSplit(ctx, connect.NewRequest(&service.ValidateSplitRequest{Split: split}))
	require.NoError(t, err)
	assert.True(t, validated.Msg.Valid)

	// Ledger calls need a token.
	_, err = client.SettleSplit(ctx, connect.NewRequest(&service.SettleSplitRequest{Split: split}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	token, err := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Generate("alice")
	require.NoError(t, err)

	req := connect.NewRequest(&service.SettleSplitRequest{Split: split})
	req.Header().Set("Authorization", "Bearer "+token)
	settled, err := client.SettleSplit(ctx, req)
	require.NoError(t, err)
	assert.Len(t, settled.Msg.Debts, 2)

	code, body := get(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `settleup_splits_total{outcome="settled"} 1`)
	assert.Contains(t, body, `settleup_debts_created_total{direction="lent",source="settlement"} 2`)
	assert.Contains(t, body, "go_goroutines")
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Server.Port = freePort(t)

	store, err := OpenStore(context.Background(), cfg.Storage)
	require.NoError(t, err)
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(cfg, store).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	port := ts.Listener.Addr().(*net.TCPAddr).Port
	ts.Close()
	return port
}
