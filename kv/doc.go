// Package kv provides the durable, string-keyed medium that session credentials and the
// cached user profile are persisted to.
//
// # Backends
//
//   - [Redis]: go-redis client, keys namespaced by a prefix.
//   - [SQLite]: single-file on-device store (modernc.org/sqlite, no cgo).
//   - [Memory]: process-local map, used by tests and ephemeral clients.
//
// # Architecture boundaries
//
// Values are opaque strings. This package never encodes or interprets them; the
// session package owns serialization.
//
// # What this package must NOT do
//
//   - Import goSession or session (no upward imports).
//   - Report an unset key as an error. Absence is the second return of [Medium.Get].
package kv
