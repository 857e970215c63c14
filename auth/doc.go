// Package auth guards the cache admin surface with HS256 JWTs.
//
// JWTAuthenticator verifies bearer tokens signed with a shared secret and
// turns their claims into an Identity. RequireJWT is the HTTP middleware
// the purge endpoint sits behind; IssueToken mints tokens for operators.
package auth
