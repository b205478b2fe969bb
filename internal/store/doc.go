// Package store provides the durable local persistence layer.
//
// Two concerns live here, both backed by the same SQLite database:
//
// [TokenStore] is a fixed-key string store for the session's access and
// refresh tokens, surviving process restarts. Missing keys are absent values,
// not errors. No expiry metadata is stored; token staleness is discovered
// reactively through 401 responses.
//
// [HistoryRepository] records playlists saved to the user's account (id, name,
// track count, timestamp) so the CLI can show what was pushed and when. It
// stores no track data.
//
// Tokens are persisted in plaintext. That mirrors how browser clients keep
// them in local storage and is a known weak practice; the database file is
// created with owner-only permissions to limit exposure.
package store
