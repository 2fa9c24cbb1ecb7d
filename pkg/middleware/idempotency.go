package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"homestay/pkg/auth"

	"golang.org/x/sync/singleflight"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency cache or
	// shared with a concurrent request carrying the same key.
	ReplayedHeader = "Idempotent-Replayed"
)

type IdempotencyStore interface {
	Get(key string) (*CachedResponse, bool)
	Set(key string, response *CachedResponse)
	Stop()
}

type CachedResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	ExpiresAt  time.Time
}

// InMemoryIdempotencyStore keeps responses for ttl. Expired entries are
// dropped on read and by a background sweep that runs until Stop.
type InMemoryIdempotencyStore struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]*CachedResponse

	stop     chan struct{}
	stopOnce sync.Once
}

func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		ttl:     ttl,
		entries: make(map[string]*CachedResponse),
		stop:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *InMemoryIdempotencyStore) Get(key string) (*CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(resp.ExpiresAt) {
		delete(s.entries, key)
		return nil, false
	}
	return resp, true
}

func (s *InMemoryIdempotencyStore) Set(key string, response *CachedResponse) {
	response.ExpiresAt = time.Now().Add(s.ttl)

	s.mu.Lock()
	s.entries[key] = response
	s.mu.Unlock()
}

func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryIdempotencyStore) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *InMemoryIdempotencyStore) sweep() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for key, resp := range s.entries {
				if now.After(resp.ExpiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Idempotency replays the response of an earlier successful write that
// carried the same key. Concurrent requests with one key run the handler
// once and all receive its response, so a retried booking request cannot
// race its original. Only 2xx responses are cached; failures may be retried.
func Idempotency(store IdempotencyStore, headerName string) func(http.Handler) http.Handler {
	if headerName == "" {
		headerName = IdempotencyHeader
	}
	var inflight singleflight.Group

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := idempotencyKey(r, headerName)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			if cached, ok := store.Get(key); ok {
				replay(w, cached, true)
				return
			}

			v, _, shared := inflight.Do(key, func() (any, error) {
				rec := newBufferedResponse()
				next.ServeHTTP(rec, r)
				resp := rec.result()
				if resp.StatusCode >= 200 && resp.StatusCode < 300 {
					store.Set(key, resp)
				}
				return resp, nil
			})
			replay(w, v.(*CachedResponse), shared)
		})
	}
}

// idempotencyKey scopes the client key to the caller and route so two
// users sending the same key never see each other's responses.
func idempotencyKey(r *http.Request, headerName string) string {
	key := r.Header.Get(headerName)
	if key == "" || r.Method == http.MethodGet || r.Method == http.MethodHead {
		return ""
	}
	userID, _ := auth.UserID(r.Context())
	return userID + "|" + r.Method + "|" + r.URL.Path + "|" + key
}

func replay(w http.ResponseWriter, resp *CachedResponse, replayed bool) {
	for k, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	if replayed {
		w.Header().Set(ReplayedHeader, "true")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

// bufferedResponse holds a handler's response so it can be cached and
// written to every waiting caller.
type bufferedResponse struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header)}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) result() *CachedResponse {
	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	return &CachedResponse{
		StatusCode: status,
		Headers:    b.header.Clone(),
		Body:       bytes.Clone(b.body.Bytes()),
	}
}
