package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	AppName    string
	AppVersion string
	Host       string
	Port       int

	DBDriver   string // postgres | sqlite
	DBURL      string
	SQLitePath string

	JWTSecret        string
	JWTExpiresIn     string
	RefreshSecret    string
	RefreshExpiresIn string

	CORSOrigins []string

	RateLimit RateLimitConfig
	Redis     RedisConfig

	LogLevel  string
	LogFormat string
	LogDir    string

	OTelEndpoint         string
	HousekeepingInterval time.Duration
}

type RateLimitConfig struct {
	Enabled   bool
	Max       int
	Window    time.Duration
	Ban       int // exceeded requests before a key is banned, 0 disables banning
	Namespace string
	Store     string // memory | redis
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")

	return Config{
		Env:        env,
		AppName:    getEnv("APP_NAME", "auth-api"),
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		Host:       getEnv("HOST", "0.0.0.0"),
		Port:       getEnvInt("PORT", 8080),

		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", "postgres")),
		DBURL:      getEnv("DATABASE_URL", buildDBURL()),
		SQLitePath: getEnv("SQLITE_PATH", "data/app.db"),

		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTExpiresIn:     getEnv("JWT_EXPIRES_IN", "15m"),
		RefreshSecret:    os.Getenv("REFRESH_SECRET"),
		RefreshExpiresIn: getEnv("REFRESH_EXPIRES_IN", "7d"),

		CORSOrigins: getEnvList("CORS_ORIGIN", []string{"*"}),

		RateLimit: RateLimitConfig{
			// rate limiting is off while developing locally
			Enabled:   getEnvBool("RATE_LIMIT_ENABLED", env != "dev"),
			Max:       getEnvInt("RATE_LIMIT_MAX", 100),
			Window:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
			Ban:       getEnvInt("RATE_LIMIT_BAN", 0),
			Namespace: getEnv("RATE_LIMIT_NAMESPACE", "ratelimit:"),
			Store:     strings.ToLower(getEnv("RATE_LIMIT_STORE", "memory")),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvInt("REDIS_DB", 0),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		LogDir:    os.Getenv("LOG_DIR"),

		OTelEndpoint:         os.Getenv("OTEL_ENDPOINT"),
		HousekeepingInterval: getEnvDuration("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

// Validate reports settings the server cannot start without.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" || c.RefreshSecret == "" {
		errs = append(errs, errors.New("JWT secrets are missing, set JWT_SECRET and REFRESH_SECRET"))
	}

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	switch c.RateLimit.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("unsupported RATE_LIMIT_STORE %q", c.RateLimit.Store))
	}

	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive"))
	}

	return errors.Join(errs...)
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "authapi")
	pass := getEnv("DB_PASSWORD", "authapi")
	name := getEnv("DB_NAME", "authapi")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return b
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fallback
		}
		return d
	}
	return fallback
}

// comma separated, blanks dropped
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	out := make([]string, 0)
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}

	if len(out) == 0 {
		return fallback
	}
	return out
}
