package dto

import "net/http"

// Error codes used across the HTTP API. Handlers translate domain error
// codes into these via NormalizeErrorCode before writing the response.
const (
	// Generic
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeRateLimited  = "ERR_RATE_LIMITED"

	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"

	// Auth
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountDeactivated = "ERR_ACCOUNT_DEACTIVATED"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked       = "ERR_TOKEN_REVOKED"

	// Orders and ingestion
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodeUnsupportedPlatform = "ERR_UNSUPPORTED_PLATFORM"
	ErrCodeUpstreamAdapter     = "ERR_UPSTREAM_ADAPTER"
	ErrCodePersistence         = "ERR_PERSISTENCE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountDeactivated: http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeTokenRevoked:       http.StatusUnauthorized,

	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeUnsupportedPlatform: http.StatusBadRequest,
	ErrCodeUpstreamAdapter:     http.StatusBadGateway,
	ErrCodePersistence:         http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code. Unknown
// codes fall back to 500.
func GetHTTPStatus(errorCode string) int {
	if status, ok := ErrorCodeHTTPStatus[errorCode]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping translates the bare codes produced by the domain
// and application layers into their ERR_-prefixed API counterparts.
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":              ErrCodeNotFound,
	"ALREADY_EXISTS":         ErrCodeConflict,
	"INVALID_INPUT":          ErrCodeValidation,
	"VALIDATION_ERROR":       ErrCodeValidation,
	"INVALID_STATE":          ErrCodeInvalidState,
	"INVALID_STATUS":         ErrCodeInvalidState,
	"INVALID_TOTAL":          ErrCodeValidation,
	"UNAUTHORIZED":           ErrCodeUnauthorized,
	"FORBIDDEN":              ErrCodeForbidden,
	"INVALID_CREDENTIALS":    ErrCodeInvalidCredentials,
	"ACCOUNT_DEACTIVATED":    ErrCodeAccountDeactivated,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_INVALID":          ErrCodeTokenInvalid,
	"TOKEN_REVOKED":          ErrCodeTokenRevoked,
	"UNSUPPORTED_PLATFORM":   ErrCodeUnsupportedPlatform,
	"UPSTREAM_ADAPTER_ERROR": ErrCodeUpstreamAdapter,
	"PERSISTENCE_ERROR":      ErrCodePersistence,
	"INTERNAL_ERROR":         ErrCodeInternal,
}

// NormalizeErrorCode converts domain error codes to API error codes.
// Unmapped codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := LegacyErrorCodeMapping[code]; ok {
		return mapped
	}
	return code
}
