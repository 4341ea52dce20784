package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

var (
	errMissingIssuer   = errors.New("auth issuer required when enabled")
	errMissingClientID = errors.New("auth client_id required when enabled")
)

// TokenVerifier validates a raw bearer token. Satisfied by *oidc.IDTokenVerifier.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*oidc.IDToken, error)
}

// NewVerifier constructs an OIDC token verifier from the auth configuration.
// Returns nil when auth is disabled. Provider discovery failures surface as
// configuration errors.
func NewVerifier(ctx context.Context, cfg *AuthConfig) (TokenVerifier, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, err
	}

	return provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}), nil
}

// Auth returns middleware that requires a valid bearer token on every request.
// A nil verifier (auth disabled) yields a passthrough.
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			if _, err := verifier.Verify(r.Context(), raw); err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
