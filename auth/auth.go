// Package auth checks parent credentials.
package auth

import "parent-portal-go/models"

// CredentialStore decides whether a login attempt is valid
type CredentialStore interface {
	Verify(email, password string) bool
}

// StaticCredentials accepts exactly one email/password pair. Comparison is
// plain string equality; there is no hashing and no lockout.
type StaticCredentials struct {
	cred models.Credential
}

var _ CredentialStore = StaticCredentials{}

// NewStaticCredentials wraps a single configured credential
func NewStaticCredentials(cred models.Credential) StaticCredentials {
	return StaticCredentials{cred: cred}
}

// Verify reports whether email and password both match exactly
func (s StaticCredentials) Verify(email, password string) bool {
	return email == s.cred.Email && password == s.cred.Password
}
