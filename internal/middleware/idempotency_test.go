package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// localRedis connects to REDIS_ADDR when set, otherwise to a throwaway
// redis container.
func localRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	opts := &redis.Options{Addr: os.Getenv("REDIS_ADDR")}
	if opts.Addr == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		container, err := tcredis.Run(ctx, "redis:7-alpine")
		testcontainers.CleanupContainer(t, container)
		require.NoError(t, err)

		uri, err := container.ConnectionString(ctx)
		require.NoError(t, err)
		opts, err = redis.ParseURL(uri)
		require.NoError(t, err)
	}

	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func newIdempotencyApp(t *testing.T, calls *int32) *fiber.App {
	client := localRedis(t)
	auth := NewAuthMiddleware(staticVerifier{"good": "alice"}, quietLogger())
	idem := NewIdempotencyMiddleware(client, time.Minute, quietLogger())

	app := fiber.New()
	app.Post("/review/:isbn", auth.Authenticate(), idem.Handle(), func(c *fiber.Ctx) error {
		n := atomic.AddInt32(calls, 1)
		if n == 1 {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "added"})
		}
		return c.JSON(fiber.Map{"message": "updated"})
	})
	return app
}

func post(t *testing.T, app *fiber.App, key, body string) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/review/ISBN001", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer good")
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	return resp, string(data)
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	var calls int32
	app := newIdempotencyApp(t, &calls)
	key := uuid.NewString()

	first, firstBody := post(t, app, key, `{"review":"Great"}`)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, secondBody := post(t, app, key, `{"review":"Great"}`)
	assert.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get("X-Idempotency-Cached"))
	assert.Equal(t, firstBody, secondBody)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotency_ConflictOnDifferentBody(t *testing.T) {
	var calls int32
	app := newIdempotencyApp(t, &calls)
	key := uuid.NewString()

	first, _ := post(t, app, key, `{"review":"Great"}`)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second, _ := post(t, app, key, `{"review":"Awful"}`)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestIdempotency_PassThrough(t *testing.T) {
	var calls int32
	app := newIdempotencyApp(t, &calls)

	first, _ := post(t, app, "", `{"review":"Great"}`)
	second, _ := post(t, app, "", `{"review":"Great"}`)
	assert.Equal(t, http.StatusCreated, first.StatusCode)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	invalid, _ := post(t, app, "not-a-uuid", `{"review":"Great"}`)
	assert.Equal(t, http.StatusBadRequest, invalid.StatusCode)
}
