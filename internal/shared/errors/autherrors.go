package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	ErrorTypeAccountInactive    ErrorType = "account_inactive"
	ErrorTypePasswordNotSet     ErrorType = "password_not_set"
	ErrorTypeTokenInvalid       ErrorType = "token_invalid"
	ErrorTypeTokenExpired       ErrorType = "token_expired"
	ErrorTypeTokenRevoked       ErrorType = "token_revoked"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged at error level
	ShouldLog bool
	// SecurityEvent marks failures worth tracking (brute force, replayed tokens)
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to reach the embedded AppError
func (e *AuthError) Unwrap() error {
	return e.AppError
}

func newAuthError(errType ErrorType, code int, message string, shouldLog, securityEvent bool) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    errType,
			Message: message,
			Code:    code,
		},
		ShouldLog:     shouldLog,
		SecurityEvent: securityEvent,
	}
}

// NewInvalidCredentialsError is returned both for an unknown phone and for a
// wrong password, so callers cannot tell which one failed.
func NewInvalidCredentialsError() *AuthError {
	return newAuthError(ErrorTypeInvalidCredentials, http.StatusUnauthorized, "invalid credentials", false, true)
}

// NewAccountInactiveError creates an error for users whose status forbids the action
func NewAccountInactiveError() *AuthError {
	return newAuthError(ErrorTypeAccountInactive, http.StatusForbidden, "not active", false, false)
}

// NewPasswordNotSetError creates an error for accounts without a usable credential
func NewPasswordNotSetError() *AuthError {
	return newAuthError(ErrorTypePasswordNotSet, http.StatusForbidden, "no password set", false, false)
}

// NewTokenInvalidError creates an error for signature, format or payload failures.
// reason is a short phrase like "invalid token" or "malformed payload".
func NewTokenInvalidError(reason string) *AuthError {
	return newAuthError(ErrorTypeTokenInvalid, http.StatusUnauthorized, reason, true, true)
}

// NewTokenExpiredError creates an error for time-based expiry
func NewTokenExpiredError(reason string) *AuthError {
	return newAuthError(ErrorTypeTokenExpired, http.StatusUnauthorized, reason, false, false)
}

// NewTokenRevokedError covers refresh token reuse and stale access token generations
func NewTokenRevokedError(reason string) *AuthError {
	return newAuthError(ErrorTypeTokenRevoked, http.StatusUnauthorized, reason, true, true)
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

// ShouldLogAuthError returns true if the authentication error should be logged.
// Non-auth errors are always logged.
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
