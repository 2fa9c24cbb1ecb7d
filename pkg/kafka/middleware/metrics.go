package kafka_middleware

import (
	"context"
	"time"

	"homestay/pkg/kafka"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts and times Kafka publish and consume operations.
type Metrics struct {
	messages *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homestay",
			Subsystem: "kafka",
			Name:      "messages_total",
			Help:      "Kafka messages by direction, topic and result.",
		}, []string{"direction", "topic", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "homestay",
			Subsystem: "kafka",
			Name:      "operation_duration_seconds",
			Help:      "Duration of Kafka publish and handle operations.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}, []string{"direction", "topic"}),
	}
	reg.MustRegister(m.messages, m.duration)
	return m
}

func (m *Metrics) observe(direction, topic string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.messages.WithLabelValues(direction, topic, result).Inc()
	m.duration.WithLabelValues(direction, topic).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		m.observe("publish", msg.Topic, start, err)
		return err
	}
}

func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.observe("consume", msg.Topic, start, err)
		return err
	}
}
