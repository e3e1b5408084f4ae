package auth

import (
	"crypto/subtle"
	"fmt"
)

const (
	SchemePlain  = "plain"
	SchemeArgon2 = "argon2"
)

// CredentialVerifier isolates how passwords are stored and compared so the
// scheme can be swapped without touching any call site.
type CredentialVerifier interface {
	// Prepare transforms a plain password into its stored form at registration.
	Prepare(password string) (string, error)
	// Verify compares a plain password against the stored form.
	Verify(password, stored string) (bool, error)
}

// NewVerifier selects the verification scheme by name.
func NewVerifier(scheme string) (CredentialVerifier, error) {
	switch scheme {
	case SchemePlain:
		return PlaintextVerifier{}, nil
	case SchemeArgon2:
		return Argon2Verifier{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

// PlaintextVerifier stores passwords as-is and compares by equality.
// This matches the historical behavior of the system and is the default;
// it is a known security gap, kept only behind this interface so switching
// to Argon2Verifier is a configuration change.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Prepare(password string) (string, error) {
	return password, nil
}

func (PlaintextVerifier) Verify(password, stored string) (bool, error) {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1, nil
}
