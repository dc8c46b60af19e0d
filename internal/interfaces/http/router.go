package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"gatehouse/internal/application/auth/usecases"
	"gatehouse/internal/infrastructure/auth"
	"gatehouse/internal/infrastructure/cache"
	"gatehouse/internal/infrastructure/config"
	"gatehouse/internal/infrastructure/email"
	"gatehouse/internal/infrastructure/repository"
	"gatehouse/internal/interfaces/http/handlers"
	"gatehouse/internal/interfaces/http/middleware"
	"gatehouse/internal/interfaces/http/routes"
	"gatehouse/internal/shared/db"
	"gatehouse/internal/shared/logger"
	"gatehouse/internal/shared/utils"
)

const (
	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 10 * time.Minute

	authRateLimit       = 30
	authRateLimitWindow = time.Minute
)

// Router wires repositories, use cases, middleware and routes into one
// Gin engine.
type Router struct {
	engine       *gin.Engine
	authHandler  *handlers.AuthHandler
	sessionGuard *middleware.SessionGuard
	rateLimiter  *middleware.RateLimiter
	sweeper      *usecases.SweepExpiredUseCase
	cfg          *config.Config
	log          logger.Interface
}

// NewRouter creates a new HTTP router with all dependencies.
func NewRouter(gdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) *Router {
	engine := gin.New()

	userRepo := repository.NewUserRepository(gdb)
	accountRepo := repository.NewAccountRepository(gdb)
	sessionRepo := repository.NewSessionRepository(gdb)
	verificationRepo := repository.NewVerificationRepository(gdb)
	txManager := db.NewTransactionManager(gdb)

	hasher := auth.NewBcryptPasswordHasher(cfg.Auth.Password.BcryptCost)

	emailService := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		Username:    cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPassword,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		BaseURL:     cfg.Server.BaseURL,
	})

	providerClients := map[string]usecases.ProviderClient{}
	if cfg.OAuth.Google.ClientID != "" {
		providerClients["google"] = auth.NewGoogleOAuthClient(auth.GoogleOAuthConfig{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
		})
	}
	if cfg.OAuth.GitHub.ClientID != "" {
		providerClients["github"] = auth.NewGitHubOAuthClient(auth.GitHubOAuthConfig{
			ClientID:     cfg.OAuth.GitHub.ClientID,
			ClientSecret: cfg.OAuth.GitHub.ClientSecret,
			RedirectURL:  cfg.OAuth.GitHub.RedirectURL,
		})
	}

	stateStore := cache.NewRedisStateStore(redisClient, oauthStatePrefix, oauthStateTTL)

	sessionLifetime := time.Duration(cfg.Auth.Session.LifetimeHours) * time.Hour
	verificationLifetime := time.Duration(cfg.Auth.Verification.ExpiresHours) * time.Hour

	issueUC := usecases.NewIssueSessionUseCase(
		userRepo, accountRepo, sessionRepo, txManager,
		sessionLifetime, cfg.Auth.AllowAutoLink, log,
	)
	validateUC := usecases.NewValidateSessionUseCase(sessionRepo, userRepo, log)
	signOutUC := usecases.NewSignOutUseCase(sessionRepo, log)
	initiateOAuthUC := usecases.NewInitiateOAuthLoginUseCase(providerClients, stateStore, log)
	handleOAuthUC := usecases.NewHandleOAuthCallbackUseCase(providerClients, initiateOAuthUC, issueUC, log)
	registerUC := usecases.NewRegisterWithPasswordUseCase(
		userRepo, verificationRepo, txManager, hasher, emailService, verificationLifetime, log,
	)
	loginUC := usecases.NewLoginWithPasswordUseCase(userRepo, sessionRepo, hasher, sessionLifetime, log)
	verifyEmailUC := usecases.NewVerifyEmailUseCase(userRepo, verificationRepo, txManager, log)
	deleteUserUC := usecases.NewDeleteUserUseCase(
		userRepo, accountRepo, sessionRepo, verificationRepo, txManager, log,
	)
	sweeper := usecases.NewSweepExpiredUseCase(sessionRepo, verificationRepo, log)

	authHandler := handlers.NewAuthHandler(
		registerUC, loginUC, verifyEmailUC,
		initiateOAuthUC, handleOAuthUC,
		validateUC, signOutUC, deleteUserUC,
		log, cfg.Auth.Cookie, cfg.Auth.Session,
		cfg.Server.FrontendCallbackURL,
	)

	sessionGuard := middleware.NewSessionGuard(validateUC, cfg.Auth.Cookie, log)
	rateLimiter := middleware.NewRateLimiter(redisClient, authRateLimit, authRateLimitWindow)

	return &Router{
		engine:       engine,
		authHandler:  authHandler,
		sessionGuard: sessionGuard,
		rateLimiter:  rateLimiter,
		sweeper:      sweeper,
		cfg:          cfg,
		log:          log,
	}
}

// SetupRoutes configures all HTTP routes.
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))
	r.engine.Use(middleware.SecurityHeaders())

	r.engine.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, 200, "ok", nil)
	})

	routes.SetupAuthRoutes(r.engine, &routes.AuthRouteConfig{
		AuthHandler:  r.authHandler,
		SessionGuard: r.sessionGuard,
		RateLimiter:  r.rateLimiter,
	})
}

// Sweeper exposes the expired-row sweeper for the server bootstrap.
func (r *Router) Sweeper() *usecases.SweepExpiredUseCase {
	return r.sweeper
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
