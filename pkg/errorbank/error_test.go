package errorbank

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

var errSentinel = errors.New("sentinel")

func TestAppError_StatusAndGRPCCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
		grpc   codes.Code
	}{
		{BadRequest("bad"), http.StatusBadRequest, codes.InvalidArgument},
		{Conflict("conflict"), http.StatusConflict, codes.AlreadyExists},
		{NotFound("missing"), http.StatusNotFound, codes.NotFound},
		{Unauthorized("who"), http.StatusUnauthorized, codes.Unauthenticated},
		{Unprocessable("nope"), http.StatusUnprocessableEntity, codes.FailedPrecondition},
		{Internal("boom"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(string(tt.err.Kind()), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.StatusCode())
			assert.Equal(t, tt.grpc, tt.err.GRPCCode())
		})
	}
}

func TestAppError_CodeAndCause(t *testing.T) {
	err := NotFound("order not found", WithCode(CodeUnknownOrder), WithCause(errSentinel), WithDetail("order_id", "RC-1"))

	assert.Equal(t, CodeUnknownOrder, err.Code())
	assert.ErrorIs(t, err, errSentinel)
	assert.ErrorIs(t, err, NotFound("", WithCode(CodeUnknownOrder)))
	assert.NotErrorIs(t, err, NotFound("", WithCode(CodeEmptyMessage)))
	assert.Equal(t, "RC-1", err.Details()["order_id"])
	assert.Equal(t, "order not found: sentinel", err.Error())

	assert.Equal(t, string(KindConflict), Conflict("x").Code())
	assert.Equal(t, CodeUnauthorized, Unauthorized("x").Code())
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("outer: %w", BadRequest("inner", WithCode(CodeEmptyMessage)))
	assert.Equal(t, CodeEmptyMessage, From(wrapped).Code())

	plain := From(errSentinel)
	assert.Equal(t, KindInternal, plain.Kind())
	assert.ErrorIs(t, plain, errSentinel)
}
