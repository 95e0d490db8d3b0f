package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"templeadmin/internal/config"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestPingProbe(t *testing.T) {
	assert.Equal(t, "database", PingProbe{}.Name())
	assert.NoError(t, PingProbe{DB: stubPinger{}}.Check(context.Background()))

	err := PingProbe{DB: stubPinger{err: errors.New("timeout")}}.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database ping failed")
}

func TestNewPool_InvalidURL(t *testing.T) {
	cfg := config.DatabaseConfig{URL: config.SecretString("postgres://%zz"), MaxConns: 2}
	_, err := NewPool(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse database url")
}

func TestMigrate_UnknownCommand(t *testing.T) {
	err := Migrate(context.Background(), "postgres://localhost/none", "sideways", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown migration command")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir(migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	require.Len(t, entries, 2)
	assert.Equal(t, "00001_catalog.sql", entries[0].Name())
	assert.Equal(t, "00002_catalog_ordinal.sql", entries[1].Name())
}
