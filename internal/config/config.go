// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds the configuration once at startup: defaults, then the optional
// yaml file, then environment overrides. The result is passed by reference
// into each component's constructor; there is no ambient accessor.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Environment string `koanf:"environment"`
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	Issuer             string        `koanf:"issuer"`
	Audience           string        `koanf:"audience"`
	PrivateKeyPath     string        `koanf:"private_key_path"`
	PublicKeyPath      string        `koanf:"public_key_path"`
	AccessTokenExpire  time.Duration `koanf:"access_token_expire"`
	RefreshTokenExpire time.Duration `koanf:"refresh_token_expire"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Burst    int           `koanf:"burst"`
	Window   time.Duration `koanf:"window"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	MaxAge           int      `koanf:"max_age"`
	AllowCredentials bool     `koanf:"allow_credentials"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.environment": "development",
		"app.name":        "Gymstack Back Office",
		"app.version":     "1.0.0",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.shutdown_timeout": "15s",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",

		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"jwt.issuer":               "gymstack",
		"jwt.audience":             "gymstack-api",
		"jwt.private_key_path":     "keys/private.pem",
		"jwt.public_key_path":      "keys/public.pem",
		"jwt.access_token_expire":  "15m",
		"jwt.refresh_token_expire": "168h",

		"rate_limit.requests": 100,
		"rate_limit.burst":    20,
		"rate_limit.window":   "1m",

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept", "Authorization", "Content-Type", "X-Request-ID",
		},
		"cors.max_age":           300,
		"cors.allow_credentials": true,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "gymstack",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}
	return nil
}

// envOverrides maps the environment variables operators actually set to
// their config keys. Anything not listed here is ignored, so stray env
// vars cannot silently reshape the config tree.
var envOverrides = map[string]string{
	"ENVIRONMENT": "app.environment",
	"HOST":        "server.host",
	"PORT":        "server.port",

	"DATABASE_URL": "database.url",
	"REDIS_URL":    "redis.url",

	"LOG_LEVEL":  "log.level",
	"LOG_FORMAT": "log.format",

	"JWT_ISSUER":               "jwt.issuer",
	"JWT_AUDIENCE":             "jwt.audience",
	"JWT_PRIVATE_KEY_PATH":     "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":      "jwt.public_key_path",
	"JWT_ACCESS_TOKEN_EXPIRE":  "jwt.access_token_expire",
	"JWT_REFRESH_TOKEN_EXPIRE": "jwt.refresh_token_expire",

	"RATE_LIMIT_REQUESTS": "rate_limit.requests",
	"RATE_LIMIT_BURST":    "rate_limit.burst",
	"RATE_LIMIT_WINDOW":   "rate_limit.window",

	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
}

func envKeyReplacer(s string) string {
	return envOverrides[s]
}

func validate(c *Config) error {
	required := []struct {
		value string
		name  string
	}{
		{c.Database.URL, "DATABASE_URL"},
		{c.Redis.URL, "REDIS_URL"},
		{c.JWT.PrivateKeyPath, "JWT_PRIVATE_KEY_PATH"},
		{c.JWT.PublicKeyPath, "JWT_PUBLIC_KEY_PATH"},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" &&
		c.Otel.Enabled && c.Otel.Insecure {
		return fmt.Errorf("OTEL_INSECURE must be false in production")
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read and write timeouts must be positive")
	}

	return nil
}
