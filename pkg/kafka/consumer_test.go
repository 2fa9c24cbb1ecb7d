package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"homestay/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu        sync.Mutex
	pending   []kafka.Message
	committed []int64
	drained   chan struct{}
}

func newFakeFetcher(msgs ...kafka.Message) *fakeFetcher {
	return &fakeFetcher{pending: msgs, drained: make(chan struct{})}
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.pending) > 0 {
		m := f.pending[0]
		f.pending = f.pending[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	if len(f.pending) == 0 {
		select {
		case <-f.drained:
		default:
			close(f.drained)
		}
	}
	return nil
}

func (f *fakeFetcher) Close() error { return nil }

func runConsumer(t *testing.T, c *Consumer, f *fakeFetcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	select {
	case <-f.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not drain messages")
	}
	cancel()
	<-done
}

func TestConsumer_RetriesTransientErrors(t *testing.T) {
	f := newFakeFetcher(kafka.Message{Offset: 1, Key: []byte("b1"), Value: []byte(`{}`)})
	attempts := 0
	c := newConsumer(f, "booking-events", "notifications", 3, func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 3 {
			return NewTransientError("mongo busy", errors.New("timeout"))
		}
		return nil
	}, logger.Discard())
	c.backoff = time.Millisecond

	runConsumer(t, c, f)

	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int64{1}, f.committed)
}

func TestConsumer_PermanentErrorIsNotRetried(t *testing.T) {
	f := newFakeFetcher(
		kafka.Message{Offset: 1, Key: []byte("b1"), Value: []byte(`not json`)},
		kafka.Message{Offset: 2, Key: []byte("b2"), Value: []byte(`{}`)},
	)
	attempts := 0
	c := newConsumer(f, "booking-events", "notifications", 3, func(ctx context.Context, msg Message) error {
		attempts++
		if msg.Offset == 1 {
			return NewPermanentError("decode booking event", errors.New("bad payload"))
		}
		return nil
	}, logger.Discard())

	runConsumer(t, c, f)

	assert.Equal(t, 2, attempts)
	assert.Equal(t, []int64{1, 2}, f.committed)
}

func TestConsumer_MiddlewareOrder(t *testing.T) {
	f := newFakeFetcher(kafka.Message{Offset: 7, Key: []byte("k"), Value: []byte(`{}`)})
	var order []string
	c := newConsumer(f, "t", "g", 0, func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	}, logger.Discard())
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	runConsumer(t, c, f)

	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("booking-1").
		WithValue(map[string]string{"type": "booking_created"}).
		WithEventType("booking_created").
		WithSource("bookings").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "booking-1", msg.Key)
	assert.NotEmpty(t, msg.GetEventID())
	assert.Equal(t, "booking_created", msg.GetEventType())

	var decoded map[string]string
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, "booking_created", decoded["type"])

	_, err = NewMessage().WithKey("k").WithValue(func() {}).Build()
	assert.Error(t, err)
}

func TestRetryCount(t *testing.T) {
	msg := Message{}
	assert.Equal(t, 0, msg.GetRetryCount())
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"wrapped transient", NewTransientError("x", nil), ErrorTypeTransient},
		{"wrapped permanent", NewPermanentError("x", nil), ErrorTypePermanent},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("weird"), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
	assert.False(t, ShouldRetry(NewTransientError("x", nil), 3, 3))
}
