package auth

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/RianNegreiros/ai-powered-task-app/internal/observability"
	"github.com/RianNegreiros/ai-powered-task-app/internal/platform/httpx"
	"github.com/RianNegreiros/ai-powered-task-app/internal/shared"
)

// Middleware verifies bearer access tokens at the transport boundary and
// attaches the authenticated identity to the request context.
type Middleware struct {
	codec   *Codec
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewMiddleware constructs the bearer-token middleware.
func NewMiddleware(codec *Codec, logger *slog.Logger, metrics *observability.Metrics) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{codec: codec, logger: logger, metrics: metrics}
}

// RequireAccessToken rejects requests without a valid access token. A
// refresh token is never accepted here: only the `access` kind passes.
func (m *Middleware) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}

		claims, err := m.codec.Verify(token)
		if err != nil {
			reason := tokenFailureReason(err)
			m.logger.Debug("bearer token rejected", slog.String("reason", reason))
			m.metrics.ObserveTokenFailure(reason)
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		if claims.Kind != TokenKindAccess {
			m.metrics.ObserveTokenFailure(observability.ReasonWrongType)
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			m.metrics.ObserveTokenFailure(observability.ReasonMalformed)
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}

		ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
