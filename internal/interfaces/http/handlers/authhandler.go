package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gatehouse/internal/application/auth/usecases"
	"gatehouse/internal/domain/identity"
	"gatehouse/internal/interfaces/http/middleware"
	"gatehouse/internal/shared/config"
	"gatehouse/internal/shared/errors"
	"gatehouse/internal/shared/logger"
	"gatehouse/internal/shared/utils"
)

type AuthHandler struct {
	registerUseCase      registerUseCase
	loginUseCase         loginUseCase
	verifyEmailUseCase   verifyEmailUseCase
	initiateOAuthUseCase initiateOAuthUseCase
	handleOAuthUseCase   handleOAuthCallbackUseCase
	validateUseCase      validateSessionUseCase
	signOutUseCase       signOutUseCase
	deleteUserUseCase    deleteUserUseCase
	logger               logger.Interface
	cookieConfig         config.CookieConfig
	sessionConfig        config.SessionConfig
	frontendCallbackURL  string
}

func NewAuthHandler(
	registerUC registerUseCase,
	loginUC loginUseCase,
	verifyEmailUC verifyEmailUseCase,
	initiateOAuthUC initiateOAuthUseCase,
	handleOAuthUC handleOAuthCallbackUseCase,
	validateUC validateSessionUseCase,
	signOutUC signOutUseCase,
	deleteUserUC deleteUserUseCase,
	logger logger.Interface,
	cookieConfig config.CookieConfig,
	sessionConfig config.SessionConfig,
	frontendCallbackURL string,
) *AuthHandler {
	return &AuthHandler{
		registerUseCase:      registerUC,
		loginUseCase:         loginUC,
		verifyEmailUseCase:   verifyEmailUC,
		initiateOAuthUseCase: initiateOAuthUC,
		handleOAuthUseCase:   handleOAuthUC,
		validateUseCase:      validateUC,
		signOutUseCase:       signOutUC,
		deleteUserUseCase:    deleteUserUC,
		logger:               logger,
		cookieConfig:         cookieConfig,
		sessionConfig:        sessionConfig,
		frontendCallbackURL:  frontendCallbackURL,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.RegisterWithPasswordCommand{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Errorw("registration failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "registration successful, please verify your email", gin.H{
		"user_id": result.User.ID,
		"email":   result.User.Email,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.LoginWithPasswordCommand{
		Email:    req.Email,
		Password: req.Password,
		Metadata: sessionMetadata(c),
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Errorw("login failed", "error", err)
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.setSessionCookie(c, result.Token)

	utils.SuccessResponse(c, http.StatusOK, "login successful", gin.H{
		"user":       userDisplay(result.User),
		"expires_at": result.Session.ExpiresAt,
	})
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "email and token are required")
			return
		}
		email = req.Email
		token = req.Token
	}

	cmd := usecases.VerifyEmailCommand{Email: email, Token: token}

	if err := h.verifyEmailUseCase.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Warnw("email verification failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "email verified successfully", nil)
}

func (h *AuthHandler) InitiateOAuth(c *gin.Context) {
	provider := c.Param("provider")

	cmd := usecases.InitiateOAuthLoginCommand{Provider: provider}

	result, err := h.initiateOAuthUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("OAuth initiation failed", "error", err, "provider", provider)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, result.AuthURL)
}

func (h *AuthHandler) HandleOAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	state := c.Query("state")

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warnw("OAuth provider returned error",
			"provider", provider,
			"error_code", errParam,
			"error_description", c.Query("error_description"),
		)
		h.redirectWithError(c, "provider_denied")
		return
	}

	if code == "" || state == "" {
		h.logger.Warnw("OAuth callback missing parameters", "provider", provider)
		h.redirectWithError(c, "invalid_callback")
		return
	}

	cmd := usecases.HandleOAuthCallbackCommand{
		Provider: provider,
		Code:     code,
		State:    state,
		Metadata: sessionMetadata(c),
	}

	result, err := h.handleOAuthUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Errorw("OAuth callback failed", "error", err, "provider", provider)
		}
		h.redirectWithError(c, oauthErrorCode(err))
		return
	}

	h.setSessionCookie(c, result.Token)

	c.Redirect(http.StatusTemporaryRedirect, h.frontendCallbackURL)
}

// GetSession reports the caller's session. An active session returns its
// user; anything else is a uniform 401 with the cookie cleared.
func (h *AuthHandler) GetSession(c *gin.Context) {
	token := utils.GetSessionToken(c, h.cookieConfig.Name)
	if token == "" {
		utils.ErrorResponse(c, http.StatusUnauthorized, "no active session")
		return
	}

	result, err := h.validateUseCase.Execute(c.Request.Context(), usecases.ValidateSessionCommand{Token: token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.State != usecases.StateActive {
		utils.ClearSessionCookie(c, h.cookieConfig)
		utils.ErrorResponse(c, http.StatusUnauthorized, "no active session")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", gin.H{
		"user":       userDisplay(result.User),
		"expires_at": result.Session.ExpiresAt,
	})
}

// SignOut invalidates the presented session. The operation is idempotent:
// a missing or dead credential still signs the client out successfully.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := utils.GetSessionToken(c, h.cookieConfig.Name)

	if token != "" {
		if err := h.signOutUseCase.Execute(c.Request.Context(), usecases.SignOutCommand{Token: token}); err != nil {
			h.logger.Errorw("sign-out failed", "error", err)
			utils.ErrorResponseWithError(c, err)
			return
		}
	}

	utils.ClearSessionCookie(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "signed out", nil)
}

func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	value, exists := c.Get(middleware.ContextKeyUser)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	user, ok := value.(*identity.User)
	if !ok {
		utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "success", userDisplay(user))
}

func (h *AuthHandler) DeleteCurrentUser(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	cmd := usecases.DeleteUserCommand{UserID: userID.(uint)}

	if err := h.deleteUserUseCase.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Errorw("user deletion failed", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ClearSessionCookie(c, h.cookieConfig)

	utils.SuccessResponse(c, http.StatusOK, "account deleted", nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := h.sessionConfig.LifetimeHours * 3600
	utils.SetSessionCookie(c, h.cookieConfig, token, maxAge)
}

func (h *AuthHandler) redirectWithError(c *gin.Context, code string) {
	target := h.frontendCallbackURL + "?error=" + url.QueryEscape(code)
	c.Redirect(http.StatusTemporaryRedirect, target)
}

func oauthErrorCode(err error) string {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return "signin_failed"
	}
	switch appErr.Type {
	case errors.ErrorTypeIdentityConflict:
		return "account_conflict"
	case errors.ErrorTypeOAuthError:
		return "provider_error"
	case errors.ErrorTypeBadRequest:
		return "invalid_callback"
	default:
		return "signin_failed"
	}
}

func sessionMetadata(c *gin.Context) usecases.SessionMetadata {
	return usecases.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

func userDisplay(user *identity.User) gin.H {
	return gin.H{
		"id":             user.ID,
		"email":          user.Email,
		"name":           user.Name,
		"avatar_url":     user.AvatarURL,
		"email_verified": user.EmailVerified,
	}
}
