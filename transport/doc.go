// Package transport holds the process-wide outbound request defaults and injects them
// into every HTTP call the client makes.
//
// [Binder] is the single "current credential" slot: the Manager binds the session token
// after a sign-in or restoration and clears it on sign-out. [RoundTripper] copies the
// defaults into each request without overriding headers the caller set explicitly.
//
// # What this package must NOT do
//
//   - Parse, refresh, or validate tokens.
//   - Queue or version binds. The last bind wins.
//   - Import goSession (no upward imports).
package transport
