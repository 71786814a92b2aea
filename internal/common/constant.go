// Package common contains shared constants and sentinel errors used across
// application components.
package common

// AccessTokenCookieName is the cookie that carries the session token for
// browser clients.
const AccessTokenCookieName = "access_token"

// RequestIDHeaderName is the HTTP header used to propagate request ids.
const RequestIDHeaderName = "X-Request-Id"
