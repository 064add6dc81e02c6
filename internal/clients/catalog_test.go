package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bookshelf/catalog-api/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(url string) *CatalogClient {
	return NewCatalogClient(&config.CatalogConfig{
		UpstreamURL:     url,
		UpstreamTimeout: time.Second,
		BreakerFailures: 2,
		BreakerReset:    time.Minute,
	}, quietLogger())
}

func TestFetchBooks_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"1":{"title":"Things Fall Apart"}}`))
	}))
	defer server.Close()

	body, err := newTestClient(server.URL).FetchBooks(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":{"title":"Things Fall Apart"}}`, string(body))
}

func TestFetchBooks_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestClient(server.URL).FetchBooks(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestFetchBooks_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestClient(url).FetchBooks(context.Background())
	assert.Error(t, err)
}

func TestFetchBooks_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	for i := 0; i < 2; i++ {
		_, err := client.FetchBooks(context.Background())
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, client.Breaker().GetState())

	_, err := client.FetchBooks(context.Background())
	assert.True(t, errors.Is(err, ErrCircuitOpen), "got %v", err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "open breaker must not reach upstream")
}
