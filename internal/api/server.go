// Package api configures and exposes the HTTP server, routes,
// metrics, docs and related middleware for the email cleaning service.
package api

import (
	_ "embed"
	"emailcleaner/internal/api/handler/v1handler"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/controller"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
)

const (
	v1SpecPath = "/specs/v1.yaml"
	v1DocsPath = "/v1/docs/"
	// timeoutBody is written with 503 when a request exceeds RequestTimeout.
	timeoutBody = `{"code":"TIMEOUT","message":"request timed out"}`
)

// v1Spec is the OpenAPI document of the /v1 routes.
//
//go:embed specs/v1.yaml
var v1Spec []byte

// Options holds the HTTP server settings. Zero durations keep the net/http defaults.
type Options struct {
	// SecHandlerOptions configures bearer authentication of the /v1 routes; nil disables it.
	SecHandlerOptions *v1handler.SecHandlerOptions

	Addr              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// RequestTimeout bounds the handling of one request, body reading included.
	RequestTimeout time.Duration
	// MaxBodyBytes caps request bodies, uploads included.
	MaxBodyBytes int64
	// MetricsPath serves the Prometheus metrics; empty disables the endpoint.
	MetricsPath string
}

// NewOptions constructs server Options from the application config.
func NewOptions(cfg *config.Config) Options {
	h := cfg.HTTP

	return Options{
		SecHandlerOptions: v1handler.NewSecHandlerOptions(cfg),
		Addr:              h.Addr,
		ReadTimeout:       h.ReadTimeout,
		ReadHeaderTimeout: h.ReadHeaderTimeout,
		WriteTimeout:      h.WriteTimeout,
		IdleTimeout:       h.IdleTimeout,
		MaxHeaderBytes:    h.MaxHeaderBytes,
		RequestTimeout:    h.RequestTimeout,
		MaxBodyBytes:      h.MaxBodyBytes,
		MetricsPath:       h.MetricsPath,
	}
}

// Deps are the collaborators of the HTTP handlers.
type Deps struct {
	v1handler.Deps
}

// HealthHandler answers liveness probes.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func serveSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(v1Spec)
}

// routes registers every endpoint of the service on mux.
func routes(mux *http.ServeMux, deps Deps, opts Options) error {
	secHandler, err := v1handler.NewSecHandler(opts.SecHandlerOptions)
	if err != nil {
		return fmt.Errorf("could not create sec handler: %w", err)
	}
	v1handler.New(deps.Deps).Register(mux, secHandler)

	mux.HandleFunc("GET /healthz", HealthHandler)
	mux.HandleFunc("GET "+v1SpecPath, serveSpec)
	mux.Handle(v1DocsPath, v5emb.New("Email Cleaner Service", v1SpecPath, v1DocsPath))
	mux.Handle(controller.PprofPrefix, controller.PprofMux())

	if opts.MetricsPath != "" {
		mux.Handle("GET "+opts.MetricsPath, promhttp.Handler())
	}

	return nil
}

// NewHandler builds the root handler. Middlewares run outermost first: request
// logging (so timeouts are logged too), the request timeout, CORS and the body limit.
func NewHandler(deps Deps, opts Options) (http.Handler, error) {
	mux := http.NewServeMux()
	if err := routes(mux, deps, opts); err != nil {
		return nil, err
	}

	handler := controller.WithCORS(controller.WithBodyLimit(opts.MaxBodyBytes, mux))
	if opts.RequestTimeout > 0 {
		handler = http.TimeoutHandler(handler, opts.RequestTimeout, timeoutBody)
	}

	return controller.WithLogger(handler), nil
}

// NewServer returns an *http.Server serving NewHandler on opts.Addr.
func NewServer(deps Deps, opts Options) (*http.Server, error) {
	handler, err := NewHandler(deps, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
	}, nil
}
