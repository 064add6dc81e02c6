package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/bookshelf/catalog-api/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticVerifier map[string]string

func (v staticVerifier) Verify(token string) (string, error) {
	if username, ok := v[token]; ok {
		return username, nil
	}
	return "", errors.New("unknown token")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newAuthApp() *fiber.App {
	auth := NewAuthMiddleware(staticVerifier{"good": "alice"}, quietLogger())

	app := fiber.New()
	app.Get("/me", auth.Authenticate(), func(c *fiber.Ctx) error {
		return c.SendString(GetUsername(c))
	})
	return app
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		status int
		code   apperrors.ErrorCode
	}{
		{name: "no header", header: "", status: http.StatusForbidden, code: apperrors.CodeForbidden},
		{name: "scheme without token", header: "Bearer", status: http.StatusForbidden, code: apperrors.CodeForbidden},
		{name: "blank token", header: "Bearer   ", status: http.StatusForbidden, code: apperrors.CodeForbidden},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized, code: apperrors.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized, code: apperrors.CodeUnauthenticated},
	}

	app := newAuthApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			var body apperrors.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestAuthenticate_SetsUsername(t *testing.T) {
	app := newAuthApp()

	for _, header := range []string{"Bearer good", "bearer good"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)

		resp, err := app.Test(req, -1)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "alice", string(body))
	}
}

func TestSplitAuthorization(t *testing.T) {
	scheme, token := splitAuthorization("  Bearer abc.def  ")
	assert.Equal(t, "Bearer", scheme)
	assert.Equal(t, "abc.def", token)

	scheme, token = splitAuthorization("")
	assert.Equal(t, "", scheme)
	assert.Equal(t, "", token)
}

func TestIsMutation(t *testing.T) {
	assert.True(t, IsMutation("POST"))
	assert.True(t, IsMutation("delete"))
	assert.False(t, IsMutation("GET"))
	assert.False(t, IsMutation("HEAD"))
}
