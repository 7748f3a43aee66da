package middleware

import (
	"context"
	"net/http"
	"strings"

	"bazaar/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const merchantIDKey contextKey = "merchant_id"

// IdentityMiddleware resolves the caller of a request to either an
// authenticated merchant or anonymous. A valid Bearer session token puts the
// merchant id on the request context; a missing, malformed, or expired token
// leaves the request anonymous. The middleware never rejects a request:
// storefront flows redirect unauthenticated callers instead of surfacing an
// auth error.
func IdentityMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Ignoring malformed authorization header")
				next.ServeHTTP(w, r)
				return
			}

			claims, err := service.ParseSessionToken(jwtSecret, parts[1])
			if err != nil {
				logger.Debug("Session token rejected, treating caller as anonymous", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if claims.MerchantID == uuid.Nil {
				logger.Debug("Session token carries no merchant id")
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), merchantIDKey, claims.MerchantID)

			logger.Debug("Merchant authenticated", zap.String("merchant_id", claims.MerchantID.String()))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MerchantID extracts the authenticated merchant id from the request context.
// The second return value is false for anonymous requests.
func MerchantID(ctx context.Context) (uuid.UUID, bool) {
	merchantID, ok := ctx.Value(merchantIDKey).(uuid.UUID)
	return merchantID, ok
}
