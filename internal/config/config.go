package config

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Upload UploadConfig `mapstructure:"upload"`
	Map    MapConfig    `mapstructure:"map"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port               int    `mapstructure:"port"`
	Mode               string `mapstructure:"mode"`
	MaxUploadMB        int    `mapstructure:"max_upload_mb"`
	ReadTimeout        int    `mapstructure:"read_timeout"`
	WriteTimeout       int    `mapstructure:"write_timeout"`
	RateLimitPerSecond int    `mapstructure:"rate_limit_per_second"`
	RateLimitBurst     int    `mapstructure:"rate_limit_burst"`
}

func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// MaxUploadBytes is the request body cap for upload routes.
func (s ServerConfig) MaxUploadBytes() int64 { return int64(s.MaxUploadMB) << 20 }

type UploadConfig struct {
	Dir string `mapstructure:"dir"`
}

type MapConfig struct {
	ZoomStart      int    `mapstructure:"zoom_start"`
	Tiles          string `mapstructure:"tiles"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	PaletteFile    string `mapstructure:"palette_file"`
}

type AuthConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Secret   string `mapstructure:"secret"`
}

// Enabled reports whether the login page guards the app.
func (a AuthConfig) Enabled() bool { return a.Username != "" || a.Password != "" }

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("server.port", 9595)
	v.SetDefault("server.mode", gin.ReleaseMode)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.rate_limit_per_second", 0)
	v.SetDefault("server.rate_limit_burst", 5)
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("map.zoom_start", 5)
	v.SetDefault("map.tiles", "CartoDB Positron")
	v.SetDefault("map.currency_symbol", "₹")
	v.SetDefault("map.palette_file", "")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: GEOMAP_UPLOAD_DIR → upload.dir
	v.SetEnvPrefix("GEOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Plain PORT / UPLOAD_FOLDER as set by hosting platforms.
	_ = v.BindEnv("server.port", "GEOMAP_SERVER_PORT", "PORT")
	_ = v.BindEnv("upload.dir", "GEOMAP_UPLOAD_DIR", "UPLOAD_FOLDER")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	switch c.Server.Mode {
	case gin.ReleaseMode, gin.DebugMode, gin.TestMode:
	default:
		errs = append(errs, fmt.Sprintf("server.mode must be release, debug or test, got %q", c.Server.Mode))
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, "server.max_upload_mb must be positive")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RateLimitPerSecond < 0 {
		errs = append(errs, "server.rate_limit_per_second must not be negative")
	}
	if c.Server.RateLimitPerSecond > 0 && c.Server.RateLimitBurst <= 0 {
		errs = append(errs, "server.rate_limit_burst must be positive when rate limiting is on")
	}
	if strings.TrimSpace(c.Upload.Dir) == "" {
		errs = append(errs, "upload.dir is required")
	}
	if c.Map.ZoomStart < 0 || c.Map.ZoomStart > 20 {
		errs = append(errs, fmt.Sprintf("map.zoom_start must be 0-20, got %d", c.Map.ZoomStart))
	}
	if c.Map.Tiles == "" {
		errs = append(errs, "map.tiles is required")
	}
	if c.Auth.Enabled() {
		if c.Auth.Username == "" || c.Auth.Password == "" {
			errs = append(errs, "auth.username and auth.password must be set together")
		}
		if len(c.Auth.Secret) < 32 {
			errs = append(errs, "auth.secret must be at least 32 characters when auth is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
