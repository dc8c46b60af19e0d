package routes

import (
	"github.com/gin-gonic/gin"

	"gatehouse/internal/interfaces/http/handlers"
	"gatehouse/internal/interfaces/http/middleware"
)

// AuthRouteConfig holds dependencies for authentication routes.
type AuthRouteConfig struct {
	AuthHandler  *handlers.AuthHandler
	SessionGuard *middleware.SessionGuard
	RateLimiter  *middleware.RateLimiter
}

// SetupAuthRoutes configures authentication routes.
func SetupAuthRoutes(engine *gin.Engine, cfg *AuthRouteConfig) {
	auth := engine.Group("/auth")
	{
		auth.POST("/register", cfg.RateLimiter.Limit(), cfg.AuthHandler.Register)
		auth.POST("/login", cfg.RateLimiter.Limit(), cfg.AuthHandler.Login)
		auth.POST("/verify-email", cfg.AuthHandler.VerifyEmail)
		auth.GET("/verify-email", cfg.AuthHandler.VerifyEmail)

		auth.GET("/oauth/:provider", cfg.RateLimiter.Limit(), cfg.AuthHandler.InitiateOAuth)
		auth.GET("/oauth/:provider/callback", cfg.AuthHandler.HandleOAuthCallback)

		auth.GET("/session", cfg.AuthHandler.GetSession)
		// Sign-out is idempotent and never requires a live session.
		auth.POST("/signout", cfg.AuthHandler.SignOut)

		auth.GET("/me", cfg.SessionGuard.RequireSession(), cfg.AuthHandler.GetCurrentUser)
		auth.DELETE("/me", cfg.SessionGuard.RequireSession(), cfg.AuthHandler.DeleteCurrentUser)
	}
}
