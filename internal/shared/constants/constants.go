package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 50

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID             = "user_id"
	ContextKeyUserRole           = "user_role"
	ContextKeyMustChangePassword = "must_change_password"
	ContextKeyRequestID          = "request_id"

	// Database table names
	TableUsers              = "users"
	TableRefreshTokens      = "refresh_tokens"
	TableStudentProfiles    = "student_profiles"
	TableGroups             = "groups"
	TableEnrollments        = "enrollments"
	TableAttendanceSessions = "attendance_sessions"
	TableAttendances        = "attendances"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgForbidden           = "Access forbidden"
)
