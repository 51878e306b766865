// Package remote is the HTTP client for the marketplace authentication API. [Client]
// implements goSession.Authenticator: registration is a multipart POST to /users,
// sign-in a JSON POST to /sessions.
//
// Requests go through a transport.Binder's client, so once a session is bound every
// call carries its bearer token.
package remote
