// Package auth provides credential hashing and stateless session tokens.
//
// Passwords are hashed with bcrypt at a configurable cost. Tokens are HS256
// JWTs carrying the user's id, username and email, valid for a fixed
// 24 hour window with no revocation.
package auth
