package common

// AuthorizationHeaderName carries the bearer session token on owner-scoped requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// Pagination defaults applied when page or limit are absent or non-numeric.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)
