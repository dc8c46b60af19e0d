package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gatehouse/internal/application/auth/usecases"
	"gatehouse/internal/shared/config"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
	"gatehouse/internal/shared/utils"
)

// Context keys populated by the guard on the active path.
const (
	ContextKeyUserID    = "user_id"
	ContextKeySessionID = "session_id"
	ContextKeyUser      = "user"
)

// SessionGuard protects routes behind session validation. Absent, expired
// and malformed credentials all yield the same 401 to the client; the
// distinction stays server-side. A storage outage fails the request with
// 503 instead of treating the caller as signed out.
type SessionGuard struct {
	validator    *usecases.ValidateSessionUseCase
	cookieConfig config.CookieConfig
	logger       logger.Interface
}

func NewSessionGuard(
	validator *usecases.ValidateSessionUseCase,
	cookieConfig config.CookieConfig,
	logger logger.Interface,
) *SessionGuard {
	return &SessionGuard{
		validator:    validator,
		cookieConfig: cookieConfig,
		logger:       logger,
	}
}

func (g *SessionGuard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionToken(c, g.cookieConfig.Name)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		result, err := g.validator.Execute(c.Request.Context(), usecases.ValidateSessionCommand{Token: token})
		if err != nil {
			if errors.IsStorageUnavailableError(err) {
				utils.ErrorResponse(c, http.StatusServiceUnavailable, "service temporarily unavailable")
			} else {
				g.logger.Errorw("session validation failed", "error", err)
				utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
			return
		}

		if result.State != usecases.StateActive {
			// A dead credential is useless; have the client drop it.
			utils.ClearSessionCookie(c, g.cookieConfig)
			utils.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, result.User.ID)
		c.Set(ContextKeySessionID, result.Session.ID)
		c.Set(ContextKeyUser, result.User)

		c.Next()
	}
}

// RequireSessionOrRedirect guards browser-facing routes. Instead of a JSON
// 401, an unauthenticated request is redirected to the sign-in page. The
// storage-outage and internal-error paths still fail the request.
func (g *SessionGuard) RequireSessionOrRedirect(signInURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionToken(c, g.cookieConfig.Name)
		if token == "" {
			c.Redirect(http.StatusSeeOther, signInURL)
			c.Abort()
			return
		}

		result, err := g.validator.Execute(c.Request.Context(), usecases.ValidateSessionCommand{Token: token})
		if err != nil {
			if errors.IsStorageUnavailableError(err) {
				utils.ErrorResponse(c, http.StatusServiceUnavailable, "service temporarily unavailable")
			} else {
				g.logger.Errorw("session validation failed", "error", err)
				utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
			}
			c.Abort()
			return
		}

		if result.State != usecases.StateActive {
			utils.ClearSessionCookie(c, g.cookieConfig)
			c.Redirect(http.StatusSeeOther, signInURL)
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, result.User.ID)
		c.Set(ContextKeySessionID, result.Session.ID)
		c.Set(ContextKeyUser, result.User)

		c.Next()
	}
}

// OptionalSession populates the user context when a valid session is
// presented and passes through silently otherwise.
func (g *SessionGuard) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionToken(c, g.cookieConfig.Name)
		if token == "" {
			c.Next()
			return
		}

		result, err := g.validator.Execute(c.Request.Context(), usecases.ValidateSessionCommand{Token: token})
		if err == nil && result.State == usecases.StateActive {
			c.Set(ContextKeyUserID, result.User.ID)
			c.Set(ContextKeySessionID, result.Session.ID)
			c.Set(ContextKeyUser, result.User)
		}

		c.Next()
	}
}
