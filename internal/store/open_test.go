package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerprep/interview/internal/config"
)

func TestOpenMemory(t *testing.T) {
	backend, closer, err := Open(config.StoreConfig{Backend: config.StoreMemory})
	require.NoError(t, err)
	defer closer()
	assert.IsType(t, &MemoryBackend{}, backend)
}

func TestOpenSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interview.db")
	backend, closer, err := Open(config.StoreConfig{Backend: config.StoreSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer closer()
	require.IsType(t, &GormBackend{}, backend)

	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, "k", []byte(`{}`), 0))
	_, version, err := backend.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestOpenRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	backend, closer, err := Open(config.StoreConfig{
		Backend: config.StoreRedis,
		Redis:   config.RedisConfig{Addr: addr},
	})
	require.NoError(t, err)
	defer closer()
	assert.IsType(t, &RedisBackend{}, backend)

	// a stopped server fails the startup ping
	mr.Close()
	_, _, err = Open(config.StoreConfig{Backend: config.StoreRedis, Redis: config.RedisConfig{Addr: addr}})
	assert.Error(t, err)
}

func TestOpenUnsupported(t *testing.T) {
	_, _, err := Open(config.StoreConfig{Backend: "cassandra"})
	assert.Error(t, err)
}
