package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Display  DisplayConfig  `yaml:"display"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Cache    CacheConfig    `yaml:"cache"`
	Postgres PostgresConfig `yaml:"postgres"`
	Archive  ArchiveConfig  `yaml:"archive"`
	Auth     AuthConfig     `yaml:"auth"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// DisplayConfig seeds the initial provider selection and manual fallbacks.
type DisplayConfig struct {
	Timezone         string            `yaml:"timezone"`
	HijriProvider    string            `yaml:"hijriProvider"`
	PrayerProvider   string            `yaml:"prayerProvider"`
	Region           string            `yaml:"region"`
	Zone             string            `yaml:"zone"`
	ManualHijriDay   int               `yaml:"manualHijriDay"`
	ManualHijriMonth int               `yaml:"manualHijriMonth"`
	ManualHijriYear  int               `yaml:"manualHijriYear"`
	ManualAnchorDate string            `yaml:"manualAnchorDate"`
	ManualAzanTimes  map[string]string `yaml:"manualAzanTimes"`
	IqamahGaps       map[string]int    `yaml:"iqamahGaps"`
}

// UpstreamConfig holds base URLs and the shared client timeout.
type UpstreamConfig struct {
	ACJUBaseURL        string        `yaml:"acjuBaseUrl"`
	AlAdhanBaseURL     string        `yaml:"alAdhanBaseUrl"`
	MosqueClockBaseURL string        `yaml:"mosqueClockBaseUrl"`
	Timeout            time.Duration `yaml:"timeout"`
}

// CacheConfig controls retention and the optional valkey layer.
type CacheConfig struct {
	RetentionDays int           `yaml:"retentionDays"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	Valkey        ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the valkey prayer store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ArchiveConfig controls the scrape-audit payload archive.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"useSSL"`
}

// AuthConfig protects the settings mutation endpoint.
type AuthConfig struct {
	AdminPasswordHash string        `yaml:"adminPasswordHash"`
	JWTSecret         string        `yaml:"jwtSecret"`
	TokenTTL          time.Duration `yaml:"tokenTtl"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("DISPLAY_TIMEZONE"); v != "" {
		cfg.Display.Timezone = v
	}
	if v := os.Getenv("DISPLAY_HIJRI_PROVIDER"); v != "" {
		cfg.Display.HijriProvider = v
	}
	if v := os.Getenv("DISPLAY_PRAYER_PROVIDER"); v != "" {
		cfg.Display.PrayerProvider = v
	}
	if v := os.Getenv("DISPLAY_REGION"); v != "" {
		cfg.Display.Region = v
	}
	if v := os.Getenv("DISPLAY_ZONE"); v != "" {
		cfg.Display.Zone = v
	}
	if v := os.Getenv("UPSTREAM_ACJU_BASE_URL"); v != "" {
		cfg.Upstream.ACJUBaseURL = v
	}
	if v := os.Getenv("UPSTREAM_ALADHAN_BASE_URL"); v != "" {
		cfg.Upstream.AlAdhanBaseURL = v
	}
	if v := os.Getenv("UPSTREAM_MOSQUECLOCK_BASE_URL"); v != "" {
		cfg.Upstream.MosqueClockBaseURL = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Upstream.Timeout = parsed
		}
	}
	if v := os.Getenv("CACHE_RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.RetentionDays = parsed
		}
	}
	if v := os.Getenv("CACHE_SWEEP_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.SweepInterval = parsed
		}
	}
	if v := os.Getenv("CACHE_VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("AUTH_ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Auth.AdminPasswordHash = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Display: DisplayConfig{
			Timezone:         "Asia/Colombo",
			HijriProvider:    "ACJU_DIRECT",
			PrayerProvider:   "AL_ADHAN_API",
			Region:           "Colombo",
			Zone:             "COLOMBO_1",
			ManualHijriDay:   1,
			ManualHijriMonth: 1,
			ManualHijriYear:  1447,
			ManualAnchorDate: "2025-06-26",
			ManualAzanTimes: map[string]string{
				"fajr":    "04:45",
				"sunrise": "06:05",
				"dhuhr":   "12:15",
				"asr":     "15:30",
				"maghrib": "18:20",
				"isha":    "19:35",
			},
			IqamahGaps: map[string]int{
				"fajr":    20,
				"dhuhr":   10,
				"asr":     10,
				"maghrib": 5,
				"isha":    10,
			},
		},
		Upstream: UpstreamConfig{
			Timeout: 8 * time.Second,
		},
		Cache: CacheConfig{
			RetentionDays: 30,
			SweepInterval: 6 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
			MinConns: 1,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return fmt.Errorf("http.address must not be empty")
	}
	if c.Cache.RetentionDays <= 0 {
		return fmt.Errorf("cache.retentionDays must be positive")
	}
	if c.Cache.SweepInterval <= 0 {
		return fmt.Errorf("cache.sweepInterval must be positive")
	}
	if c.Display.ManualHijriMonth < 1 || c.Display.ManualHijriMonth > 12 {
		return fmt.Errorf("display.manualHijriMonth must be 1-12")
	}
	if c.Display.ManualHijriDay < 1 || c.Display.ManualHijriDay > 30 {
		return fmt.Errorf("display.manualHijriDay must be 1-30")
	}
	if _, err := time.Parse("2006-01-02", c.Display.ManualAnchorDate); err != nil {
		return fmt.Errorf("display.manualAnchorDate must be YYYY-MM-DD: %w", err)
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	return nil
}
