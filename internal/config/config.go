package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const configFileName = "config.yaml"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Geo     GeoConfig     `mapstructure:"geo"`
	Cache   CacheConfig   `mapstructure:"cache"`
	UI      UIConfig      `mapstructure:"ui"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Logging LoggingConfig `mapstructure:"logging"`

	dir string // directory the config was loaded from and is saved to
}

// ServerConfig holds the marketplace API endpoint and the stored session
type ServerConfig struct {
	URL      string `mapstructure:"url"`    // REST base URL, e.g. https://api.phongtro.vn
	WSURL    string `mapstructure:"ws_url"` // WebSocket base URL (derived from URL when empty)
	Token    string `mapstructure:"token"`
	UserID   string `mapstructure:"user_id"`
	Username string `mapstructure:"username"` // display only
	Email    string `mapstructure:"email"`
	Role     string `mapstructure:"role"`
}

// GeoConfig holds third-party map, geocoding and region services
type GeoConfig struct {
	GeocoderURL     string        `mapstructure:"geocoder_url"`
	UserAgent       string        `mapstructure:"user_agent"`
	RegionsURL      string        `mapstructure:"regions_url"`
	TileURL         string        `mapstructure:"tile_url"`
	DefaultLat      float64       `mapstructure:"default_lat"`
	DefaultLng      float64       `mapstructure:"default_lng"`
	DefaultRadiusKm float64       `mapstructure:"default_radius_km"`
	RatePerSecond   float64       `mapstructure:"rate_per_second"`
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
}

// CacheConfig holds response cache configuration
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PageSize     int `mapstructure:"page_size"`
	ToastSeconds int `mapstructure:"toast_seconds"`
}

// ViewerConfig selects the program that opens listing photos and map links.
// An empty command tries known image viewers, then the system default.
type ViewerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: "http://localhost:8080/api",
		},
		Geo: GeoConfig{
			GeocoderURL:     "https://nominatim.openstreetmap.org",
			UserAgent:       "phongtro-cli/1.0",
			RegionsURL:      "https://provinces.open-api.vn/api",
			TileURL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
			DefaultLat:      21.0285,
			DefaultLng:      105.8542,
			DefaultRadiusKm: 5,
			RatePerSecond:   1,
			CacheTTL:        10 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
		},
		UI: UIConfig{
			PageSize:     20,
			ToastSeconds: 4,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "phongtro", "phongtro.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "phongtro", "phongtro.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "phongtro")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "phongtro")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "phongtro", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "phongtro", "cache")
	}
}

// LoadConfig loads configuration from the default location and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(defaultConfigPath())
}

// LoadConfigFrom loads configuration from dir, falling back to defaults
// when no config file exists. PHONGTRO_* environment variables override
// file values (PHONGTRO_SERVER_URL, PHONGTRO_LOGGING_LEVEL, ...).
func LoadConfigFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(dir)
	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.dir = dir

	return cfg, nil
}

func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("PHONGTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides apply to
// keys that are absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
}

// settings flattens cfg into viper keys (snake_case)
func settings(cfg *Config) map[string]any {
	return map[string]any{
		"server.url":      cfg.Server.URL,
		"server.ws_url":   cfg.Server.WSURL,
		"server.token":    cfg.Server.Token,
		"server.user_id":  cfg.Server.UserID,
		"server.username": cfg.Server.Username,
		"server.email":    cfg.Server.Email,
		"server.role":     cfg.Server.Role,

		"geo.geocoder_url":      cfg.Geo.GeocoderURL,
		"geo.user_agent":        cfg.Geo.UserAgent,
		"geo.regions_url":       cfg.Geo.RegionsURL,
		"geo.tile_url":          cfg.Geo.TileURL,
		"geo.default_lat":       cfg.Geo.DefaultLat,
		"geo.default_lng":       cfg.Geo.DefaultLng,
		"geo.default_radius_km": cfg.Geo.DefaultRadiusKm,
		"geo.rate_per_second":   cfg.Geo.RatePerSecond,
		"geo.cache_ttl":         cfg.Geo.CacheTTL.String(),

		"cache.enabled": cfg.Cache.Enabled,
		"cache.dir":     cfg.Cache.Dir,

		"ui.page_size":     cfg.UI.PageSize,
		"ui.toast_seconds": cfg.UI.ToastSeconds,

		"viewer.command": cfg.Viewer.Command,
		"viewer.args":    cfg.Viewer.Args,

		"logging.file":  cfg.Logging.File,
		"logging.level": cfg.Logging.Level,
	}
}

// Dir returns the directory the configuration is saved to
func (c *Config) Dir() string {
	if c.dir == "" {
		return defaultConfigPath()
	}
	return c.dir
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	dir := cfg.Dir()

	// Ensure config directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range settings(cfg) {
		v.Set(key, value)
	}

	configFile := filepath.Join(dir, configFileName)
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveSession stores the identity returned by login/register
func SaveSession(cfg *Config, token, userID, username, email, role string) error {
	cfg.Server.Token = token
	cfg.Server.UserID = userID
	cfg.Server.Username = username
	cfg.Server.Email = email
	cfg.Server.Role = role
	return SaveConfig(cfg)
}

// ClearSession removes the stored identity while preserving other settings
func ClearSession(cfg *Config) error {
	cfg.Server.Token = ""
	cfg.Server.UserID = ""
	cfg.Server.Username = ""
	cfg.Server.Email = ""
	cfg.Server.Role = ""
	return SaveConfig(cfg)
}

// IsConfigured returns true if the server URL and a session are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != "" && c.Server.UserID != ""
}

// WebSocketURL returns the chat socket base URL, deriving it from the REST
// URL (http→ws, https→wss) when not configured explicitly
func (c *Config) WebSocketURL() string {
	if c.Server.WSURL != "" {
		return strings.TrimRight(c.Server.WSURL, "/")
	}
	base := strings.TrimRight(c.Server.URL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}

// CachePath returns the cache directory, or "" when caching to disk is disabled
func (c *Config) CachePath() string {
	if !c.Cache.Enabled {
		return ""
	}
	return c.Cache.Dir
}

// ClearCache removes all cached data
func ClearCache(cfg *Config) error {
	if cfg.Cache.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// ToastDuration returns how long transient notifications stay visible
func (c *Config) ToastDuration() time.Duration {
	if c.UI.ToastSeconds <= 0 {
		return 4 * time.Second
	}
	return time.Duration(c.UI.ToastSeconds) * time.Second
}
