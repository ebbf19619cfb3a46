// Package v1handler implements the /v1 HTTP API: batch cleaning of address
// lists and single domain correction.
package v1handler

import (
	"context"
	"emailcleaner/internal/cleaner"
	"emailcleaner/pkg/logger"
	"emailcleaner/pkg/metrics"
	"emailcleaner/pkg/serrors"
	"errors"
	"net/http"

	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "emailcleaner/internal/api/handler/v1handler"

// Deps are the collaborators of the handlers.
type Deps struct {
	Cleaner cleaner.Cleaner
	Metrics *metrics.Recorder
}

// Handler serves the v1 API.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// ErrorResponse is the JSON body of an unsuccessful response.
type ErrorResponse struct {
	Code    string
	Message string
}

// ErrorStatusCode pairs an ErrorResponse with its HTTP status.
type ErrorStatusCode struct {
	StatusCode int
	Response   ErrorResponse
}

type errorMapping struct {
	status  int
	message string
}

var errorMappings = map[serrors.Kind]errorMapping{ //nolint: gochecknoglobals
	serrors.ErrNotFound:      {http.StatusNotFound, "resource not found"},
	serrors.ErrUnauthorized:  {http.StatusUnauthorized, "unauthorized"},
	serrors.ErrForbidden:     {http.StatusForbidden, "forbidden"},
	serrors.ErrBadRequest:    {http.StatusBadRequest, "bad request"},
	serrors.ErrConflict:      {http.StatusConflict, "conflict"},
	serrors.ErrTimeout:       {http.StatusGatewayTimeout, "request timed out"},
	serrors.ErrUnavailable:   {http.StatusServiceUnavailable, "service unavailable"},
	serrors.ErrRateLimited:   {http.StatusTooManyRequests, "too many requests"},
	serrors.ErrTooLarge:      {http.StatusRequestEntityTooLarge, "payload too large"},
	serrors.ErrUnsupported:   {http.StatusUnsupportedMediaType, "unsupported media type"},
	serrors.ErrInternal:      {http.StatusInternalServerError, "internal error"},
	serrors.ErrConfiguration: {http.StatusInternalServerError, "internal error"},
}

// NewError maps err to a status code and a client safe message. Semantic errors
// keep their own message, everything else is reported as an internal error.
func (h *Handler) NewError(ctx context.Context, err error) *ErrorStatusCode {
	kind := serrors.KindOf(err)
	mapping, ok := errorMappings[kind]
	if !ok {
		kind = serrors.ErrInternal
		mapping = errorMappings[kind]
	}

	message := mapping.message
	var se *serrors.Error
	if mapping.status < http.StatusInternalServerError && errors.As(err, &se) && se.Message() != "" {
		message = se.Message()
	}

	if mapping.status >= http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
	} else {
		logger.Debug(ctx, "request rejected", zap.Error(err))
	}

	return &ErrorStatusCode{
		StatusCode: mapping.status,
		Response: ErrorResponse{
			Code:    kind.Error(),
			Message: message,
		},
	}
}

// Register mounts the v1 routes on mux, guarded by sec.
func (h *Handler) Register(mux *http.ServeMux, sec *SecHandler) {
	mux.Handle("POST /v1/clean", sec.Wrap(h.writeError, h.Clean))
	mux.Handle("POST /v1/domains/correct", sec.Wrap(h.writeError, h.CorrectDomain))
}

// writeError writes err as a JSON error response.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	res := h.NewError(r.Context(), err)

	var e jx.Encoder
	encodeError(&e, res.Response)
	writeJSON(w, res.StatusCode, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
