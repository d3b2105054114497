package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config is built once at startup and must not be mutated afterwards.
type Config struct {
	DatabaseURL string

	TokenKey string
	Issuer   string
	Audience string

	HTTPAddress string
	GRPCAddress string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	UserCacheTTL  time.Duration

	AllowedOrigins   []string
	AllowCredentials bool

	HTTPSCertFile string
	HTTPSKeyFile  string

	LogLevel            string
	HealthCheckInterval time.Duration
}

var envKeys = []string{
	"DATABASE_URL",
	"TOKEN_KEY",
	"JWT_ISSUER",
	"JWT_AUDIENCE",
	"HTTP_ADDRESS",
	"GRPC_ADDRESS",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"USER_CACHE_TTL",
	"ALLOWED_ORIGINS",
	"ALLOW_CREDENTIALS",
	"HTTPS_CERT_FILE",
	"HTTPS_KEY_FILE",
	"LOG_LEVEL",
	"HEALTH_CHECK_INTERVAL",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")

	v.SetDefault("HTTP_ADDRESS", ":4000")
	v.SetDefault("GRPC_ADDRESS", ":50051")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("USER_CACHE_TTL", 5*time.Minute)
	v.SetDefault("ALLOW_CREDENTIALS", false)
	v.SetDefault("HEALTH_CHECK_INTERVAL", 10*time.Second)

	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	origins, err := parseOrigins(v.Get("ALLOWED_ORIGINS"))
	if err != nil {
		return nil, fmt.Errorf("ALLOWED_ORIGINS: %w", err)
	}

	cfg := &Config{
		DatabaseURL:         v.GetString("DATABASE_URL"),
		TokenKey:            v.GetString("TOKEN_KEY"),
		Issuer:              v.GetString("JWT_ISSUER"),
		Audience:            v.GetString("JWT_AUDIENCE"),
		HTTPAddress:         v.GetString("HTTP_ADDRESS"),
		GRPCAddress:         v.GetString("GRPC_ADDRESS"),
		RedisAddress:        v.GetString("REDIS_ADDRESS"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		RedisDB:             v.GetInt("REDIS_DB"),
		UserCacheTTL:        v.GetDuration("USER_CACHE_TTL"),
		AllowedOrigins:      origins,
		AllowCredentials:    v.GetBool("ALLOW_CREDENTIALS"),
		HTTPSCertFile:       v.GetString("HTTPS_CERT_FILE"),
		HTTPSKeyFile:        v.GetString("HTTPS_KEY_FILE"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		HealthCheckInterval: v.GetDuration("HEALTH_CHECK_INTERVAL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is not set")
	}
	// без ключа подписи сервис не может выпускать токены
	if c.TokenKey == "" {
		return errors.New("TOKEN_KEY is not set")
	}
	if (c.HTTPSCertFile == "") != (c.HTTPSKeyFile == "") {
		return errors.New("HTTPS_CERT_FILE and HTTPS_KEY_FILE must be set together")
	}
	if c.HealthCheckInterval <= 0 {
		return errors.New("HEALTH_CHECK_INTERVAL must be positive")
	}
	return nil
}

// TLSEnabled reports whether both listeners should serve TLS.
func (c *Config) TLSEnabled() bool {
	return c.HTTPSCertFile != "" && c.HTTPSKeyFile != ""
}

// parseOrigins accepts a JSON array, a comma separated string or a list from config.json.
func parseOrigins(raw any) ([]string, error) {
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return nil, nil
		}
		if strings.HasPrefix(val, "[") {
			var out []string
			if err := json.Unmarshal([]byte(val), &out); err != nil {
				return nil, err
			}
			return out, nil
		}
		var out []string
		for _, o := range strings.Split(val, ",") {
			if o = strings.TrimSpace(o); o != "" {
				out = append(out, o)
			}
		}
		return out, nil
	default:
		return cast.ToStringSliceE(val)
	}
}
