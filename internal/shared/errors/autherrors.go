package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeIdentityConflict   ErrorType = "identity_conflict"
	ErrorTypeSessionExpired     ErrorType = "session_expired"
	ErrorTypeTokenMalformed     ErrorType = "token_malformed"
	ErrorTypeEmailNotVerified   ErrorType = "email_not_verified"
	ErrorTypeOAuthError         ErrorType = "oauth_error"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Some auth errors (like invalid credentials) are expected and don't need error-level logging.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// The message never reveals whether the email or the password was wrong.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid email or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewIdentityConflictError creates an error for a provider identity whose
// claimed email already belongs to a user linked through a different provider.
// The message is a generic sign-in failure; which account collided is never exposed.
func NewIdentityConflictError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeIdentityConflict,
			Message: "Unable to sign in with this account",
			Code:    http.StatusConflict,
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewSessionExpiredError creates an error for expired sessions
func NewSessionExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeSessionExpired,
			Message: "Session has expired",
			Code:    http.StatusUnauthorized,
			Details: "Please sign in again",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenMalformedError creates an error for a credential that does not have
// the opaque-token shape. Rejected before any storage lookup.
func NewTokenMalformedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenMalformed,
			Message: "Invalid session token",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewEmailNotVerifiedError creates an error for sign-ins blocked on a pending
// email verification challenge.
func NewEmailNotVerifiedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeEmailNotVerified,
			Message: "Email address is not verified",
			Code:    http.StatusForbidden,
			Details: "Check your inbox for the verification link",
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewOAuthError creates an error for failures talking to an external provider
func NewOAuthError(provider string, details ...string) *AuthError {
	detail := "external provider exchange failed"
	if len(details) > 0 {
		detail = details[0]
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeOAuthError,
			Message: "Authentication with " + provider + " failed",
			Code:    http.StatusBadGateway,
			Details: detail,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error chain (supports wrapped errors via errors.As)
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError returns true if the authentication error should be logged
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.SecurityEvent
	}
	return false
}
