package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StorePostgres, cfg.StoreBackend)
	assert.Equal(t, CacheRedis, cfg.CacheBackend)
	assert.Equal(t, 20, cfg.DBMaxConns)
	assert.Equal(t, 2*time.Second, cfg.DBConnectTimeout)
	assert.Equal(t, 300*time.Second, cfg.UsersListTTL)
	assert.Equal(t, 600*time.Second, cfg.UserTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.EnableMetrics)
	assert.False(t, cfg.EnableTracing)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("CACHE_BACKEND", CacheNone)
	t.Setenv("USERS_LIST_TTL_SECONDS", "30")
	t.Setenv("USER_TTL_SECONDS", "60")
	t.Setenv("ENABLE_METRICS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, StoreMemory, cfg.StoreBackend)
	assert.Equal(t, CacheNone, cfg.CacheBackend)
	assert.Equal(t, 30*time.Second, cfg.UsersListTTL)
	assert.Equal(t, 60*time.Second, cfg.UserTTL)
	assert.False(t, cfg.EnableMetrics)
}

func TestLoadConfig_UnknownStoreBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "cassandra")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestLoadConfig_UnknownCacheBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestLoadConfig_MemoryStoreRejectsCache(t *testing.T) {
	t.Setenv("STORE_BACKEND", StoreMemory)
	t.Setenv("CACHE_BACKEND", CacheRedis)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestValidate_ProductionRequiresURLs(t *testing.T) {
	cfg := &Config{
		Environment:  "production",
		StoreBackend: StorePostgres,
		CacheBackend: CacheRedis,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	cfg.DatabaseURL = "postgres://db:5432/userapi"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_URL")

	cfg.RedisURL = "redis://cache:6379"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"garbage", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL_FLAG", tt.value)
			assert.Equal(t, tt.want, getEnvBool("TEST_BOOL_FLAG", !tt.want))
		})
	}
}
