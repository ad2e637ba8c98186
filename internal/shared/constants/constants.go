package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
	HeaderXForwardedFor      = "X-Forwarded-For"
	HeaderXRealIP            = "X-Real-IP"
	HeaderRetryAfter         = "Retry-After"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderQuotaRemaining     = "X-Quota-Remaining"

	// Context keys
	ContextKeyUserID    = "user_id"
	ContextKeyUserRole  = "user_role"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
	ContextKeyClientKey = "client_key"

	// ContextKeyWindowCounted marks a request already counted by the rate limiter.
	ContextKeyWindowCounted = "window_counted"

	// AnonymousClientKey is the shared rate-limit bucket for requests that
	// carry no forwarding header.
	AnonymousClientKey = "anonymous"

	// Pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Database table names
	TableAccounts = "accounts"
	TableUsages   = "usage_quotas"
	TableProjects = "projects"
)
