package v1handler_test

import (
	"context"
	"emailcleaner/internal/api/handler/v1handler"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Initialize logger to avoid nil pointer deref during tests
	logger.Setup(logger.DevelopmentEnvironment, "error")
	m.Run()
}

func TestNewError_InternalOnPlainError(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	res := h.NewError(ctx, errors.New("boom"))
	require.NotNil(t, res)
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_KindSentinelDirect_NotFound(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	// Pass the Kind sentinel directly
	res := h.NewError(ctx, serrors.ErrNotFound)
	require.Equal(t, 404, res.StatusCode)
	require.Equal(t, serrors.ErrNotFound.Error(), res.Response.Code)
	require.Equal(t, "resource not found", res.Response.Message)
}

func TestNewError_SemanticWithMessage_BadRequest(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	err := serrors.With(serrors.ErrBadRequest, "invalid payload: missing items")
	res := h.NewError(ctx, err)
	require.Equal(t, 400, res.StatusCode)
	require.Equal(t, serrors.ErrBadRequest.Error(), res.Response.Code)
	require.Equal(t, "invalid payload: missing items", res.Response.Message)
}

func TestNewError_SemanticWrap_Unauthorized(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	cause := errors.New("bad token")
	err := serrors.Wrap(serrors.ErrUnauthorized, cause, "unauthorized")
	res := h.NewError(ctx, err)
	require.Equal(t, 401, res.StatusCode)
	require.Equal(t, serrors.ErrUnauthorized.Error(), res.Response.Code)
	// Should include provided message, not the cause
	require.Equal(t, "unauthorized", res.Response.Message)
}

func TestNewError_InternalKind_GeneratesInternal(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})
	ctx := context.Background()

	res := h.NewError(ctx, serrors.KindOnly(serrors.ErrInternal))
	require.Equal(t, 500, res.StatusCode)
	require.Equal(t, serrors.ErrInternal.Error(), res.Response.Code)
	require.Equal(t, "internal error", res.Response.Message)
}

func TestNewError_StatusByKind(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	cases := []struct {
		kind   serrors.Kind
		status int
	}{
		{serrors.ErrForbidden, http.StatusForbidden},
		{serrors.ErrConflict, http.StatusConflict},
		{serrors.ErrTimeout, http.StatusGatewayTimeout},
		{serrors.ErrUnavailable, http.StatusServiceUnavailable},
		{serrors.ErrRateLimited, http.StatusTooManyRequests},
		{serrors.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{serrors.ErrUnsupported, http.StatusUnsupportedMediaType},
		{serrors.ErrConfiguration, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.kind.Error(), func(t *testing.T) {
			res := h.NewError(context.Background(), serrors.KindOnly(tc.kind))
			require.Equal(t, tc.status, res.StatusCode)
			require.Equal(t, tc.kind.Error(), res.Response.Code)
		})
	}
}

func TestNewError_WrappedSemanticError(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	err := fmt.Errorf("could not read %q: %w", "list.doc",
		serrors.With(serrors.ErrUnsupported, "unsupported document type \".doc\""))
	res := h.NewError(context.Background(), err)
	require.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)
	require.Equal(t, "unsupported document type \".doc\"", res.Response.Message)
}

func TestNewError_ConfigurationMessageIsHidden(t *testing.T) {
	h := v1handler.New(v1handler.Deps{})

	res := h.NewError(context.Background(), serrors.With(serrors.ErrConfiguration, "secret path /etc/x"))
	require.Equal(t, "internal error", res.Response.Message)
}
