// Package session persists the client's authentication artifacts: the opaque token pair
// issued by the remote API and the last-known user profile.
//
// # Encoding
//
// Both records are stored as JSON strings in the same shape the mobile client has always
// written them (`{"token":...,"refresh_token":...}` and the raw user object), so a
// medium populated by an older build restores without migration. Unknown profile fields
// are preserved verbatim, and a numeric user id stays numeric.
//
// # Architecture boundaries
//
// This package owns [CredentialStore], [ProfileStore] and the record models. It does NOT
// decide when records are written or cleared, bind tokens to outbound requests, or talk
// to the remote API. The Manager does those.
//
// # What this package must NOT do
//
//   - Import goSession, transport, or remote (no upward imports).
//   - Parse or validate token contents.
//   - Persist half of a token pair.
package session
