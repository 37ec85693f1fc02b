package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yanqian/jungle-board/pkg/util"
)

// Session storage backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendFile   = "file"
	SessionBackendValkey = "valkey"
	SessionBackendNone   = "none"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	API     APIConfig     `yaml:"api"`
	Session SessionConfig `yaml:"session"`
	Board   BoardConfig   `yaml:"board"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// APIConfig points at the board REST API.
type APIConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionConfig selects where the signed-in session is persisted.
type SessionConfig struct {
	Backend      string        `yaml:"backend"`
	Key          string        `yaml:"key"`
	Dir          string        `yaml:"dir"`
	PollInterval time.Duration `yaml:"pollInterval"`
	Valkey       ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared session backend.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// BoardConfig controls list paging and date rendering.
type BoardConfig struct {
	PageSize  int    `yaml:"pageSize"`
	GroupSize int    `yaml:"groupSize"`
	Timezone  string `yaml:"timezone"`
}

// Load reads configuration from .env, a YAML file and environment variables, in that order.
func Load() (*Config, error) {
	cfg := defaultConfig()

	for _, file := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(file); err == nil {
			break
		}
	}

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
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
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
	if v := os.Getenv("API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("API_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.API.Timeout = parsed
		}
	}
	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("SESSION_KEY"); v != "" {
		cfg.Session.Key = v
	}
	if v := os.Getenv("SESSION_DIR"); v != "" {
		cfg.Session.Dir = v
	}
	if v := os.Getenv("SESSION_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Session.PollInterval = parsed
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.Valkey.Addr = v
	}
	if v := os.Getenv("SESSION_VALKEY_PREFIX"); v != "" {
		cfg.Session.Valkey.Prefix = v
	}
	if v := os.Getenv("BOARD_PAGE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Board.PageSize = parsed
		}
	}
	if v := os.Getenv("BOARD_GROUP_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Board.GroupSize = parsed
		}
	}
	if v := os.Getenv("BOARD_TIMEZONE"); v != "" {
		cfg.Board.Timezone = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			// Wider binds expose the stored session to any caller that can reach the port.
			Address:     "127.0.0.1:8080",
			ReadTimeout: 5 * time.Second,
			// Zero keeps the session SSE stream open.
			WriteTimeout:   0,
			AllowedOrigins: []string{"http://localhost:3000"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		API: APIConfig{
			BaseURL: "http://localhost:3001",
			Timeout: 10 * time.Second,
		},
		Session: SessionConfig{
			Backend:      SessionBackendMemory,
			Key:          "jungle-board-auth",
			Dir:          ".jungle-board",
			PollInterval: time.Second,
			Valkey: ValkeyConfig{
				Prefix: "jungle-board",
			},
		},
		Board: BoardConfig{
			PageSize:  10,
			GroupSize: 5,
			Timezone:  "Local",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return errors.New("http timeouts cannot be negative")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.baseUrl cannot be empty")
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.baseUrl must be an absolute url: %q", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendNone:
	case SessionBackendFile:
		if strings.TrimSpace(c.Session.Dir) == "" {
			return errors.New("session.dir cannot be empty when the file backend is selected")
		}
	case SessionBackendValkey:
		if strings.TrimSpace(c.Session.Valkey.Addr) == "" {
			return errors.New("session.valkey.addr cannot be empty when the valkey backend is selected")
		}
	default:
		return fmt.Errorf("session.backend %q is not supported", c.Session.Backend)
	}
	if strings.TrimSpace(c.Session.Key) == "" {
		return errors.New("session.key cannot be empty")
	}
	if c.Session.PollInterval < 0 {
		return errors.New("session.pollInterval cannot be negative")
	}
	if c.Board.PageSize <= 0 {
		return errors.New("board.pageSize must be positive")
	}
	if c.Board.GroupSize <= 0 {
		return errors.New("board.groupSize must be positive")
	}
	if _, err := util.LoadLocation(c.Board.Timezone); err != nil {
		return fmt.Errorf("board.timezone: %w", err)
	}
	return nil
}
