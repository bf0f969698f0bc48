package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Gateway  GatewayConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Limits   LimitsConfig
	Log      LogConfig

	// EnvFileLoaded reports whether Load found and applied an env file.
	EnvFileLoaded bool
}

type ServerConfig struct {
	Host string
	Port string
}

// Addr is the listen address, host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// URL is the base URL a local browser or client uses to reach the server.
func (s ServerConfig) URL() string {
	return "http://" + s.Addr()
}

type GatewayConfig struct {
	URL      string
	Timeout  time.Duration
	Greeting string

	// AllowedOrigins may call the API from a browser on another origin,
	// such as a front-end dev server.
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

// Enabled reports whether a Redis host has been configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	port := r.Port
	if port == "" {
		port = "6379"
	}
	return net.JoinHostPort(r.Host, port)
}

type LimitsConfig struct {
	DataPerMinute int
	ViewPerMinute int
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = "8000"
	DefaultGreeting       = "Hello from Go!"
	DefaultGatewayTimeout = 10 * time.Second
)

// Load reads configuration from the environment after applying envFile, if
// it exists. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	cfg := &Config{}

	if envFile != "" {
		err := godotenv.Load(envFile)
		switch {
		case err == nil:
			cfg.EnvFileLoaded = true
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg.Server.Host = getEnvOrDefault("HOST", DefaultHost)
	cfg.Server.Port = getEnvOrDefault("PORT", DefaultPort)

	cfg.Gateway.URL = getEnvOrDefault("GATEWAY_URL", cfg.Server.URL())
	cfg.Gateway.Greeting = getEnvOrDefault("GREETING", DefaultGreeting)
	timeout, err := getDuration("GATEWAY_TIMEOUT", DefaultGatewayTimeout)
	if err != nil {
		return nil, err
	}
	cfg.Gateway.Timeout = timeout

	cfg.Gateway.AllowedOrigins = splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:5173"))

	cfg.Database.URL = os.Getenv("DATABASE_URL")

	cfg.Redis.Host = os.Getenv("REDIS_HOST")
	cfg.Redis.Port = os.Getenv("REDIS_PORT")
	cfg.Redis.Username = os.Getenv("REDIS_USERNAME")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")

	if cfg.Limits.DataPerMinute, err = getInt("DATA_RATE_LIMIT", 300); err != nil {
		return nil, err
	}
	if cfg.Limits.ViewPerMinute, err = getInt("VIEW_RATE_LIMIT", 1200); err != nil {
		return nil, err
	}

	cfg.Log.Level = getEnvOrDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvOrDefault("LOG_FORMAT", "console")

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, value)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
