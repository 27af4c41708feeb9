package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"STORE": "memory"})
	require.NoError(t, err)
	assert.Equal(t, ":3030", cfg.Addr)
	assert.Equal(t, "lru", cfg.CacheProvider)
	assert.Equal(t, 1000, cfg.CacheCapacity)
	assert.Equal(t, "msgpack", cfg.CompactFormat)
	assert.Equal(t, "zap", cfg.LogBackend)
	assert.Equal(t, time.Hour, cfg.GenCleanupInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.GenRetention)
	assert.False(t, cfg.CoalesceMisses)
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"STORE":           "postgres",
		"DATABASE_URL":    "postgres://bazaar:secret@db:5432/bazaar",
		"CACHE_PROVIDER":  "ristretto",
		"CACHE_CAPACITY":  "50",
		"COMPACT_FORMAT":  "cbor",
		"COALESCE_MISSES": "true",
		"LOG_BACKEND":     "zerolog",
	})
	require.NoError(t, err)
	assert.Equal(t, "ristretto", cfg.CacheProvider)
	assert.Equal(t, 50, cfg.CacheCapacity)
	assert.True(t, cfg.CoalesceMisses)
	assert.NotContains(t, cfg.String(), "secret")
	assert.Contains(t, cfg.String(), "db:5432")
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown store":      {"STORE": "sqlite"},
		"missing dsn":        {"STORE": "postgres"},
		"unknown provider":   {"STORE": "memory", "CACHE_PROVIDER": "redis"},
		"zero capacity":      {"STORE": "memory", "CACHE_CAPACITY": "0"},
		"negative capacity":  {"STORE": "memory", "CACHE_CAPACITY": "-5"},
		"unknown compact":    {"STORE": "memory", "COMPACT_FORMAT": "bincode"},
		"unknown log":        {"STORE": "memory", "LOG_BACKEND": "glog"},
		"zero body limit":    {"STORE": "memory", "MAX_BODY_BYTES": "0"},
		"bad duration value": {"STORE": "memory", "GEN_RETENTION": "forever"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(vars)
			assert.Error(t, err)
		})
	}
}
