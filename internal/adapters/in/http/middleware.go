package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// Echo context keys set by the auth middleware.
const (
	contextKeyIdentity = "auth.identity"
	contextKeyTokenID  = "auth.tokenID"
)

// AuthMiddleware validates the bearer token and the backing session row on
// every request. A token that verifies cryptographically but points to an
// invalidated or expired session is rejected the same way: the client
// receives a forced-logout directive and must re-authenticate.
type AuthMiddleware struct {
	tokens     *TokenCodec
	uowFactory commands.SessionUoWFactory
	registry   ports.ConnectionRegistry
}

// NewAuthMiddleware creates the authentication middleware.
func NewAuthMiddleware(
	tokens *TokenCodec,
	uowFactory commands.SessionUoWFactory,
	registry ports.ConnectionRegistry,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:     tokens,
		uowFactory: uowFactory,
		registry:   registry,
	}
}

// Require is the echo middleware function.
func (m *AuthMiddleware) Require(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		token := strings.TrimPrefix(ctx.Request().Header.Get("Authorization"), "Bearer ")
		if token == "" {
			return sessionExpiredResponse(ctx)
		}

		identity, tokenID, err := m.tokens.Parse(token)
		if err != nil {
			return sessionExpiredResponse(ctx)
		}

		uow := m.uowFactory.Create()
		s, err := uow.SessionRepository().GetByTokenID(ctx.Request().Context(), tokenID)
		if err != nil {
			return sessionExpiredResponse(ctx)
		}
		if err := s.CheckUsable(time.Now()); err != nil {
			// A superseded session may still hold a live connection; push
			// the forced logout before rejecting the request.
			if s.ConnectionID() != nil {
				m.registry.ForceLogout(*s.ConnectionID())
			}
			return sessionExpiredResponse(ctx)
		}

		ctx.Set(contextKeyIdentity, identity)
		ctx.Set(contextKeyTokenID, tokenID)
		return next(ctx)
	}
}

func sessionExpiredResponse(ctx echo.Context) error {
	return ctx.JSON(http.StatusUnauthorized, map[string]any{
		"error":       "session expired",
		"forceLogout": true,
	})
}

// actorFrom returns the authenticated identity stored by the middleware.
func actorFrom(ctx echo.Context) (kernel.Identity, bool) {
	identity, ok := ctx.Get(contextKeyIdentity).(kernel.Identity)
	return identity, ok
}
