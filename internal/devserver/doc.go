// Package devserver is an in-memory stand-in for the marketplace authentication API.
//
// It serves the routes the client talks to (POST /users, POST /sessions) plus
// token refresh and GET /me for exercising bearer propagation. Passwords are hashed
// with argon2id and access tokens are HS256 JWTs. State lives in process memory and
// is lost on exit; it exists for tests, examples, and cmd/authstub.
package devserver
