package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/storekit/inventory-api/app/respond"
)

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireToken gates a handler behind bearer-token possession. Missing,
// malformed, and invalid tokens all receive the same 401; there is no
// authorization beyond holding a valid token.
func RequireToken(verifier TokenVerifier, log *zap.Logger, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			respond.Message(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.Info("token rejected", zap.String("path", r.URL.Path))
			respond.Message(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		log.Debug("authenticated request",
			zap.String("identity", identity),
			zap.String("path", r.URL.Path),
		)
		next(w, r)
	}
}
