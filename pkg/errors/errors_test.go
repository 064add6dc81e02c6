package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_HTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidInput:        http.StatusBadRequest,
		CodeAlreadyExists:       http.StatusConflict,
		CodeNotFound:            http.StatusNotFound,
		CodeInvalidCredentials:  http.StatusUnauthorized,
		CodeUnauthenticated:     http.StatusUnauthorized,
		CodeForbidden:           http.StatusForbidden,
		CodeNoSuchReview:        http.StatusNotFound,
		CodeUpstreamUnavailable: http.StatusInternalServerError,
		ErrorCode("SOMETHING"):  http.StatusInternalServerError,
	}

	for code, want := range cases {
		assert.Equal(t, want, NewAppError(code, "msg", nil).HTTPStatus(), "code %s", code)
	}
}

func TestAppError_IsSurvivesWrapping(t *testing.T) {
	sentinel := NewAppError(CodeNoSuchReview, "no review", nil)

	wrapped := fmt.Errorf("delete failed: %w", sentinel)
	assert.True(t, stderrors.Is(wrapped, sentinel))

	rewrapped := WrapError(wrapped, "handler failed")
	assert.True(t, stderrors.Is(rewrapped, sentinel))

	appErr := As(rewrapped)
	assert.Equal(t, CodeNoSuchReview, appErr.Code)
	assert.Equal(t, "handler failed", appErr.Message)
}

func TestAs_PlainErrorBecomesInternal(t *testing.T) {
	appErr := As(stderrors.New("boom"))

	require.NotNil(t, appErr)
	assert.Equal(t, CodeInternalError, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus())
	assert.Contains(t, appErr.Error(), "boom")
}

func TestToErrorResponse(t *testing.T) {
	resp := NewAppError(CodeForbidden, "no token", nil).ToErrorResponse("req-1")

	assert.Equal(t, "no token", resp.Message)
	assert.Equal(t, CodeForbidden, resp.Code)
	assert.Equal(t, "req-1", resp.TraceID)
}
