package v1handler

import (
	"context"
	"crypto/rsa"
	"emailcleaner/internal/config"
	"emailcleaner/pkg/domain"
	"emailcleaner/pkg/serrors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CtxKey is a string-based type used for storing values in request contexts.
type CtxKey string

// ClientIDKey is the context key under which the authenticated client ID is stored.
const ClientIDKey CtxKey = "ClientID"

// SecHandlerOptions configures bearer authentication. An empty PublicKey
// disables authentication.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key that verifies RS256 tokens
	PublicKey string
}

func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	if !cfg.JWT.Enabled {
		return &SecHandlerOptions{}
	}

	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler authenticates v1 requests with RS256 signed JWTs whose subject is
// the client ID.
type SecHandler struct {
	publicKey *rsa.PublicKey
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	if opts == nil || opts.PublicKey == "" {
		return &SecHandler{}, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrConfiguration, err, "could not parse RSA public key")
	}

	return &SecHandler{publicKey: key}, nil
}

// Enabled reports whether requests must carry a token.
func (s *SecHandler) Enabled() bool {
	return s != nil && s.publicKey != nil
}

// HandleBearerAuth verifies token and stores the client ID in the returned context.
func (s *SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.publicKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil || !parsed.Valid {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	return context.WithValue(ctx, ClientIDKey, domain.ClientID(id)), nil
}

// Wrap guards next with bearer authentication when it is enabled. Failures are
// reported through onError.
func (s *SecHandler) Wrap(
	onError func(http.ResponseWriter, *http.Request, error),
	next http.HandlerFunc,
) http.Handler {
	if !s.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			onError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		ctx, err := s.HandleBearerAuth(r.Context(), strings.TrimSpace(token))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
			onError(w, r, err)

			return
		}

		next(w, r.WithContext(ctx))
	})
}

// GetClientIDFromContext returns the authenticated client, or the zero ID when
// authentication is disabled.
func GetClientIDFromContext(ctx context.Context) domain.ClientID {
	id, _ := ctx.Value(ClientIDKey).(domain.ClientID)

	return id
}
