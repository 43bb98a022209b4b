// Package common contains shared constants and sentinel errors used across
// butcherdesk components.
package common

const (
	// AuthorizationHeaderName carries the bearer access token on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with backend log lines.
	RequestIDHeaderName = "X-Request-ID"

	// LoginPath exchanges username/password for a token pair.
	LoginPath = "/auth/token/"

	// RefreshPath exchanges a refresh token for a new access token.
	RefreshPath = "/auth/token/refresh/"

	// MePath returns the authenticated user.
	MePath = "/auth/me/"

	// HealthPath answers 200 without authentication.
	HealthPath = "/health/"
)

// BearerValue formats token as an Authorization header value.
func BearerValue(token string) string {
	return BearerPrefix + token
}
