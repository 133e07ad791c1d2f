// Package common contains shared constants and sentinel errors used across
// refdata components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer session
// token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the literal prefix stripped from the Authorization header
// before the token lookup. The comparison is intentionally exact, not
// case-insensitive, matching the deployed client.
const BearerPrefix = "Bearer "
