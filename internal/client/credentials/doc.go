// Package credentials persists the access/refresh token pair used by the
// authenticated API client.
//
// A Store sits on top of a pluggable Backend (memory, JSON file, SQLite or
// Redis) and exposes exactly four accessors: AccessToken, RefreshToken,
// StoreTokens and ClearTokens. Both tokens are always written together and
// cleared together.
//
// # Storage failures
//
// When the backend cannot be read, the accessors report the token as absent
// and log a warning instead of failing: an unavailable store behaves like an
// empty one. Writes return an error wrapping ErrStorageUnavailable.
package credentials
