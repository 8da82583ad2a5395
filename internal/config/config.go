package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. AUCTION_SERVER_PORT.
const EnvPrefix = "AUCTION"

const (
	envDevelopment       = "development"
	defaultSessionSecret = "dev-session-secret"
)

// placeholderSecrets are the secrets shipped in defaults and configs/config.yml;
// they are only accepted in development.
var placeholderSecrets = map[string]bool{
	defaultSessionSecret: true,
	"change-me":          true,
}

// Config holds application configuration loaded from configs/config.yml and the environment
type Config struct {
	Env string

	// Server
	Port    string
	GinMode string

	// Logging
	LogLevel  string
	LogFormat string // json or text

	// Database
	DBDriver       string // sqlite, postgres or memory
	DBDSN          string
	DBMaxOpenConns int

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	CookieSecure  bool

	// CORS
	CORSAllowedOrigins []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", envDevelopment)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "auction.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("auth.session_secret", defaultSessionSecret)
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.cookie_name", "session")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("cors.allowed_origins", []string{})
}

// Load reads .env (if present), then the YAML config found in paths, then
// AUCTION_* environment variables. A missing config file is not an error.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load() // load .env if present

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return fromViper(v)
}

// LoadFile reads a single config file, used by the CLI's -config flag.
func LoadFile(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                v.GetString("app.env"),
		Port:               strings.TrimPrefix(v.GetString("server.port"), ":"),
		GinMode:            v.GetString("server.gin_mode"),
		LogLevel:           v.GetString("log.level"),
		LogFormat:          v.GetString("log.format"),
		DBDriver:           strings.ToLower(v.GetString("database.driver")),
		DBDSN:              v.GetString("database.dsn"),
		DBMaxOpenConns:     v.GetInt("database.max_open_conns"),
		SessionSecret:      v.GetString("auth.session_secret"),
		SessionTTL:         v.GetDuration("auth.session_ttl"),
		CookieName:         v.GetString("auth.cookie_name"),
		CookieSecure:       v.GetBool("auth.cookie_secure"),
		CORSAllowedOrigins: splitOrigins(v.GetStringSlice("cors.allowed_origins")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("config: unsupported database.driver %q", c.DBDriver)
	}
	if c.DBDriver == "postgres" && c.DBDSN == "" {
		return errors.New("config: database.dsn is required for postgres")
	}
	if c.SessionSecret == "" {
		return errors.New("config: auth.session_secret must not be empty")
	}
	if c.Env != envDevelopment && placeholderSecrets[c.SessionSecret] {
		return fmt.Errorf("config: auth.session_secret must be changed when app.env is %q", c.Env)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("config: auth.session_ttl must be positive, got %s", c.SessionTTL)
	}
	if c.CookieName == "" {
		return errors.New("config: auth.cookie_name must not be empty")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// splitOrigins accepts both a YAML list and a comma-separated env value.
func splitOrigins(raw []string) []string {
	res := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, p := range strings.Split(item, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				res = append(res, p)
			}
		}
	}
	return res
}
