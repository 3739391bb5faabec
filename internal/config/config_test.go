package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geo.GeocoderURL)
	assert.Equal(t, 10*time.Minute, cfg.Geo.CacheTTL)
	assert.Equal(t, 20, cfg.UI.PageSize)
	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	cfg.Server.URL = "https://api.example.vn"

	require.NoError(t, SaveSession(cfg, "tok-1", "u-1", "Lan", "lan@example.vn", "renter"))
	_, err = os.Stat(filepath.Join(dir, configFileName))
	require.NoError(t, err)

	reloaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.True(t, reloaded.IsConfigured())
	assert.Equal(t, "tok-1", reloaded.Server.Token)
	assert.Equal(t, "u-1", reloaded.Server.UserID)
	assert.Equal(t, "https://api.example.vn", reloaded.Server.URL)

	require.NoError(t, ClearSession(reloaded))
	cleared, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.False(t, cleared.IsConfigured())
	assert.Equal(t, "https://api.example.vn", cleared.Server.URL)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHONGTRO_SERVER_URL", "https://env.example.vn")
	t.Setenv("PHONGTRO_UI_PAGE_SIZE", "50")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.vn", cfg.Server.URL)
	assert.Equal(t, 50, cfg.UI.PageSize)
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{"https", ServerConfig{URL: "https://api.example.vn/"}, "wss://api.example.vn"},
		{"http", ServerConfig{URL: "http://localhost:8080/api"}, "ws://localhost:8080/api"},
		{"explicit", ServerConfig{URL: "https://a", WSURL: "wss://chat.example.vn/"}, "wss://chat.example.vn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Server: tt.cfg}
			assert.Equal(t, tt.want, cfg.WebSocketURL())
		})
	}
}

func TestCachePathDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	assert.Empty(t, cfg.CachePath())
}

func TestClearCacheRemovesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Dir = filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Cache.Dir, "abc"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Cache.Dir, "abc", "cache.db"), []byte("x"), 0o600))

	require.NoError(t, ClearCache(cfg))
	_, err := os.Stat(cfg.Cache.Dir)
	assert.True(t, os.IsNotExist(err))

	// Already gone is fine
	require.NoError(t, ClearCache(cfg))
}

func TestViewerSettingsLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PHONGTRO_VIEWER_COMMAND", "feh")

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "feh", cfg.Viewer.Command)
}
