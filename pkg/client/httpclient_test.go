package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpClient_SendsTokenAndBody(t *testing.T) {
	var gotAuth, gotType, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotKey = r.Header.Get("Idempotency-Key")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"b1"}}`))
	}))
	defer srv.Close()

	c := NewHttpClient(srv.URL).WithToken("t0ken")
	resp, err := c.Do(context.Background(), http.MethodPost, "/api/bookings", map[string]any{"adults": 2}, map[string]string{"Idempotency-Key": "k1"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Bearer t0ken", gotAuth)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "k1", gotKey)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, resp.DecodeData(&data))
	assert.Equal(t, "b1", data.ID)
}

func TestHttpClient_WithTokenDoesNotMutateParent(t *testing.T) {
	base := NewHttpClient("http://localhost")
	_ = base.WithToken("abc")
	assert.Empty(t, base.Token)
}

func TestGetErrorMessage(t *testing.T) {
	resp := &Response{Body: []byte(`{"code":"CONFLICT","error":"Listing is not available for the selected dates"}`)}
	assert.Equal(t, "Listing is not available for the selected dates", GetErrorMessage(resp))

	resp = &Response{Body: []byte(`{"code":"RATE_LIMITED"}`)}
	assert.Equal(t, "RATE_LIMITED", GetErrorMessage(resp))
}

func TestWaitForHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewHttpClient(srv.URL).WaitForHealthy(context.Background(), time.Second))
}
