package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, filepath.Join(dir, "sppg.db"), cfg.SQLitePath())
	assert.True(t, cfg.IsLocal())

	sc := cfg.Sync()
	assert.Equal(t, 30*time.Second, sc.Interval)
	assert.Equal(t, 30*time.Second, sc.PullTimeout)
	assert.Equal(t, 5*time.Second, sc.PushTimeout)
	assert.Equal(t, 30*time.Minute, cfg.LockTTLDuration())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "prod")
	t.Setenv("REMOTE_URL", "https://sheets.example.org/exec")
	t.Setenv("API_KEY", "SPPGDATA2026")
	t.Setenv("STORE_DRIVER", "jsonfile")
	t.Setenv("DATA_DIR", "/var/lib/sppg")
	t.Setenv("SYNC_INTERVAL_SECONDS", "60")
	t.Setenv("LOCK_TTL_MINUTES", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, "https://sheets.example.org/exec", cfg.RemoteURL)
	assert.Equal(t, filepath.Join("/var/lib/sppg", "tables"), cfg.TablesDir())
	assert.Equal(t, time.Minute, cfg.Sync().Interval)
	assert.Equal(t, 10*time.Minute, cfg.LockTTLDuration())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unknown driver", "STORE_DRIVER", "mongo"},
		{"bad env", "APP_ENV", "staging"},
		{"bad url", "REMOTE_URL", "not a url"},
		{"interval too short", "SYNC_INTERVAL_SECONDS", "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
			assert.Panics(t, func() { MustLoad() })
		})
	}
}
