package client

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"bajeti/config"
	"bajeti/database"
	"bajeti/logger"
	"bajeti/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(_ context.Context, token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", errors.New("unknown token")
}

// newTestServer 启动完整的 HTTP 服务（内存 sqlite），返回 token 为 "alice" 的客户端
func newTestServer(t *testing.T) (*Client, *httptest.Server) {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverSQLite, Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{Server: config.ServerConfig{Mode: "test", CORSOrigins: []string{"*"}}}
	h := router.SetupRouter(cfg, db, staticVerifier{"alice": "user-alice", "bob": "user-bob"}, logger.NewTestLogger())
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, "alice"), srv
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string {
	return &s
}
