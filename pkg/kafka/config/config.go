package kafka_config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config is the broker, client and topic setup shared by the booking
// event producer and the notifications consumer.
type Config struct {
	Brokers  []string
	Producer ProducerConfig
	Consumer ConsumerConfig

	BookingEventsTopic    string
	BookingEventsDLQTopic string
	NotificationsGroupID  string

	EnableMiddleware bool
}

type ProducerConfig struct {
	MaxAttempts  int
	BatchTimeout time.Duration
	// RequireAcks is -1 for all replicas, 0 for none and 1 for the leader.
	RequireAcks int
	Compression string
	Async       bool
}

type ConsumerConfig struct {
	// StartOffset is -1 for the newest message or -2 for the oldest.
	StartOffset       int64
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	CommitInterval    time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
	RebalanceTimeout  time.Duration
	MaxRetries        int
}

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

// Default is the configuration used for every variable left unset.
func Default() Config {
	return Config{
		Brokers: []string{"localhost:9092"},
		Producer: ProducerConfig{
			MaxAttempts:  3,
			BatchTimeout: 10 * time.Millisecond,
			RequireAcks:  -1,
			Compression:  "snappy",
		},
		Consumer: ConsumerConfig{
			StartOffset:       -1,
			MinBytes:          1,
			MaxBytes:          10 << 20,
			MaxWait:           500 * time.Millisecond,
			CommitInterval:    time.Second,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    10 * time.Second,
			RebalanceTimeout:  time.Minute,
			MaxRetries:        3,
		},
		BookingEventsTopic:    "booking-events",
		BookingEventsDLQTopic: "booking-events-dlq",
		NotificationsGroupID:  "notifications",
		EnableMiddleware:      true,
	}
}

// Load overlays KAFKA_* environment variables on Default. Malformed values
// keep the default; the caller is expected to run Validate.
func Load() *Config {
	cfg := Default()
	env := envReader{prefix: "KAFKA_"}

	if raw := env.getStr("BROKERS", ""); raw != "" {
		cfg.Brokers = cfg.Brokers[:0]
		for _, broker := range strings.Split(raw, ",") {
			cfg.Brokers = append(cfg.Brokers, strings.TrimSpace(broker))
		}
	}

	p := &cfg.Producer
	p.MaxAttempts = env.getInt("PRODUCER_MAX_ATTEMPTS", p.MaxAttempts)
	p.BatchTimeout = env.getDuration("PRODUCER_BATCH_TIMEOUT", p.BatchTimeout)
	p.RequireAcks = env.getInt("PRODUCER_REQUIRE_ACKS", p.RequireAcks)
	p.Compression = env.getStr("PRODUCER_COMPRESSION", p.Compression)
	p.Async = env.getBool("PRODUCER_ASYNC", p.Async)

	c := &cfg.Consumer
	c.StartOffset = int64(env.getInt("CONSUMER_START_OFFSET", int(c.StartOffset)))
	c.MinBytes = env.getInt("CONSUMER_MIN_BYTES", c.MinBytes)
	c.MaxBytes = env.getInt("CONSUMER_MAX_BYTES", c.MaxBytes)
	c.MaxWait = env.getDuration("CONSUMER_MAX_WAIT", c.MaxWait)
	c.CommitInterval = env.getDuration("CONSUMER_COMMIT_INTERVAL", c.CommitInterval)
	c.HeartbeatInterval = env.getDuration("CONSUMER_HEARTBEAT_INTERVAL", c.HeartbeatInterval)
	c.SessionTimeout = env.getDuration("CONSUMER_SESSION_TIMEOUT", c.SessionTimeout)
	c.RebalanceTimeout = env.getDuration("CONSUMER_REBALANCE_TIMEOUT", c.RebalanceTimeout)
	c.MaxRetries = env.getInt("CONSUMER_MAX_RETRIES", c.MaxRetries)

	cfg.BookingEventsTopic = env.getStr("BOOKING_EVENTS_TOPIC", cfg.BookingEventsTopic)
	cfg.BookingEventsDLQTopic = env.getStr("BOOKING_EVENTS_DLQ_TOPIC", cfg.BookingEventsDLQTopic)
	cfg.NotificationsGroupID = env.getStr("NOTIFICATIONS_GROUP_ID", cfg.NotificationsGroupID)
	cfg.EnableMiddleware = env.getBool("ENABLE_MIDDLEWARE", cfg.EnableMiddleware)

	return &cfg
}

// Validate reports every problem at once, joined into a single error.
func (cfg *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "at least one broker is required")
	for i, broker := range cfg.Brokers {
		check(broker != "", "broker %d is empty", i)
	}

	p := cfg.Producer
	check(p.MaxAttempts > 0, "producer max attempts must be positive, got %d", p.MaxAttempts)
	check(p.BatchTimeout > 0, "producer batch timeout must be positive, got %s", p.BatchTimeout)
	check(p.RequireAcks >= -1 && p.RequireAcks <= 1, "producer require acks must be -1, 0 or 1, got %d", p.RequireAcks)
	check(slices.Contains(compressions, p.Compression), "producer compression must be one of %v, got %q", compressions, p.Compression)

	c := cfg.Consumer
	check(c.StartOffset >= -2, "consumer start offset must be -1, -2 or a non-negative offset, got %d", c.StartOffset)
	check(c.MinBytes > 0, "consumer min bytes must be positive, got %d", c.MinBytes)
	check(c.MaxBytes >= c.MinBytes, "consumer max bytes must be at least min bytes, got %d", c.MaxBytes)
	for name, d := range map[string]time.Duration{
		"max wait":           c.MaxWait,
		"commit interval":    c.CommitInterval,
		"heartbeat interval": c.HeartbeatInterval,
		"session timeout":    c.SessionTimeout,
		"rebalance timeout":  c.RebalanceTimeout,
	} {
		check(d > 0, "consumer %s must be positive, got %s", name, d)
	}
	check(c.MaxRetries >= 0, "consumer max retries cannot be negative, got %d", c.MaxRetries)

	check(cfg.BookingEventsTopic != "", "booking events topic is required")
	check(cfg.BookingEventsDLQTopic != cfg.BookingEventsTopic, "booking events DLQ topic must differ from the events topic")
	check(cfg.NotificationsGroupID != "", "notifications group id is required")

	if len(errs) > 0 {
		return fmt.Errorf("invalid kafka configuration: %w", errors.Join(errs...))
	}
	return nil
}

func (cfg *Config) LogConfiguration(logFunc func(msg string, keysAndValues ...any)) {
	if logFunc == nil {
		return
	}

	logFunc("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"producer", fmt.Sprintf("%+v", cfg.Producer),
		"consumer", fmt.Sprintf("%+v", cfg.Consumer),
		"booking_events_topic", cfg.BookingEventsTopic,
		"booking_events_dlq_topic", cfg.BookingEventsDLQTopic,
		"notifications_group_id", cfg.NotificationsGroupID,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

type envReader struct {
	prefix string
}

func (e envReader) getStr(key, fallback string) string {
	if value := os.Getenv(e.prefix + key); value != "" {
		return value
	}
	return fallback
}

func (e envReader) getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(e.getStr(key, "")); err == nil {
		return n
	}
	return fallback
}

func (e envReader) getBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(e.getStr(key, "")); err == nil {
		return b
	}
	return fallback
}

func (e envReader) getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.getStr(key, "")); err == nil {
		return d
	}
	return fallback
}
