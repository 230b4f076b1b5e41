package utils

import (
	"time"
)

// ContextKey is the type for request-scoped values carried into business flows
type ContextKey string

const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour

	// SessionTimeout is the default session timeout (24 hours)
	SessionTimeout = 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Sale and access constants
const (
	// CourseAccessDuration is how long a granted sale keeps course access (120 days)
	CourseAccessDuration = 120 * 24 * time.Hour

	// MinPaymentRatio is the paid/total ratio required before access can be granted
	MinPaymentRatio = 0.5
)

// Click attribution constants
const (
	// FallbackClientIP is recorded when no forwarding header carries a usable address
	FallbackClientIP = "0.0.0.0"

	// Sentinel geo values recorded when the proxy injects no geo headers
	GeoCountryFallback = "Development"
	GeoRegionFallback  = "Local"
	GeoCityFallback    = "Localhost"
)

// Slug constraints for ad links
const (
	SlugMinLength = 3
	SlugMaxLength = 50
)
