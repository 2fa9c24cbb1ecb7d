package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"time"

	"homestay/pkg/client"
	kafka_config "homestay/pkg/kafka/config"
	"homestay/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	JWTSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BookingLockTTL      time.Duration
	BookingLockWait     time.Duration
	EventsEnabled       bool
	EventPublishTimeout time.Duration

	Kafka *kafka_config.Config

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the optional .env file, then the process environment.
func Load(serviceName string) *Config {
	dotEnvErr := loadDotEnv(getEnvStr(EnvDotEnv, DefaultDotEnv))

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret: getEnvStr(EnvJWTSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		BookingLockTTL:      getEnvDuration(EnvBookingLockTTL, DefaultBookingLockTTL),
		BookingLockWait:     getEnvDuration(EnvBookingLockWait, DefaultBookingLockWait),
		EventsEnabled:       getEnvBool(EnvEventsEnabled, DefaultEventsEnabled),
		EventPublishTimeout: getEnvDuration(EnvEventPublishTimeout, DefaultEventPublishTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if dotEnvErr != nil {
		cfg.Log.Warn("Failed to load .env file", "error", dotEnvErr)
	}

	if cfg.EventsEnabled {
		cfg.Kafka = kafka_config.Load()
	}

	return cfg
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

var mongoURIPattern = regexp.MustCompile(`^mongodb(\+srv)?://.+`)

// Validate reports every problem at once, joined into a single error.
func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	port, err := strconv.Atoi(cfg.Port)
	check(err == nil && port >= 1 && port <= 65535, "port must be between 1 and 65535, got %q", cfg.Port)
	check(mongoURIPattern.MatchString(cfg.MongoURI), "mongo URI must start with mongodb:// or mongodb+srv://, got %q", redactMongoURI(cfg.MongoURI))
	check(cfg.MongoDatabaseName != "", "mongo database name is required")
	check(len(cfg.JWTSecret) >= 16, "JWT secret must be at least 16 characters")
	check(cfg.RateLimitRequests > 0, "rate limit requests must be positive, got %d", cfg.RateLimitRequests)
	check(cfg.MaxRequestSize > 0, "max request size must be positive, got %d", cfg.MaxRequestSize)

	for name, d := range map[string]time.Duration{
		"mongo connect timeout": cfg.MongoConnTimeout,
		"rate limit window":     cfg.RateLimitWindow,
		"request timeout":       cfg.RequestTimeout,
		"idempotency TTL":       cfg.IdempotencyTTL,
		"read timeout":          cfg.ReadTimeout,
		"write timeout":         cfg.WriteTimeout,
		"idle timeout":          cfg.IdleTimeout,
		"shutdown timeout":      cfg.ShutdownTimeout,
		"booking lock TTL":      cfg.BookingLockTTL,
		"booking lock wait":     cfg.BookingLockWait,
		"event publish timeout": cfg.EventPublishTimeout,
	} {
		check(d > 0, "%s must be positive, got %s", name, d)
	}
	check(cfg.BookingLockWait <= cfg.RequestTimeout,
		"booking lock wait (%s) must not exceed request timeout (%s)", cfg.BookingLockWait, cfg.RequestTimeout)
	check(cfg.BookingLockTTL > cfg.RequestTimeout,
		"booking lock TTL (%s) must exceed request timeout (%s)", cfg.BookingLockTTL, cfg.RequestTimeout)

	switch {
	case cfg.Kafka != nil:
		if err := cfg.Kafka.Validate(); err != nil {
			errs = append(errs, err)
		}
	case cfg.EventsEnabled:
		errs = append(errs, errors.New("kafka configuration is required when events are enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"booking_lock_ttl", cfg.BookingLockTTL,
		"booking_lock_wait", cfg.BookingLockWait,
		"events_enabled", cfg.EventsEnabled,
		"event_publish_timeout", cfg.EventPublishTimeout,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

var mongoCredentials = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)

func redactMongoURI(uri string) string {
	return mongoCredentials.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log)
}
