// Package goSession is the session core of a marketplace client: it turns a successful
// sign-in into a persisted session, restores that session on the next start, binds the
// bearer token into the HTTP client, and tears everything down on sign-out.
//
// A [Manager] is assembled with [Builder]. Its methods are safe to call from multiple
// goroutines; SignIn, SignOut, and RestoreSession are serialized internally.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Manager], [Builder], [Config], the error
// types, and value types (Session, Snapshot, MetricsSnapshot). Durable storage lives in
// kv and session, header injection in transport, the HTTP authentication client in
// remote; audit dispatch and counters live under internal/.
//
// # What this package must NOT do
//
//   - Parse or validate tokens. Token and refresh token are opaque strings.
//   - Publish an authenticated session that is not fully persisted.
//   - Retry remote or storage calls on its own.
//   - Import remote (remote imports goSession for its error types).
package goSession
