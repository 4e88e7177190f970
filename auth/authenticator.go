package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthenticated = errors.New("bearer token missing")
	ErrForbidden       = errors.New("invalid token")
	ErrNoSecret        = errors.New("no bearer secret configured")
)

const bearerScheme = "Bearer "

// Authenticator validates bearer credentials against a secret fixed at startup
type Authenticator struct {
	secret []byte
	hash   []byte
}

// NewAuthenticator creates an authenticator comparing tokens with a plain secret
func NewAuthenticator(secret string) (*Authenticator, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Authenticator{secret: []byte(secret)}, nil
}

// NewHashedAuthenticator creates an authenticator comparing tokens with a bcrypt hash
func NewHashedAuthenticator(hash string) (*Authenticator, error) {
	if hash == "" {
		return nil, ErrNoSecret
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, err
	}
	return &Authenticator{hash: []byte(hash)}, nil
}

// Check validates the value of an Authorization header.
// It returns ErrUnauthenticated when the header is absent or not a Bearer credential,
// and ErrForbidden when the token does not match the secret.
func (a *Authenticator) Check(header string) error {
	if !strings.HasPrefix(header, bearerScheme) {
		return ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return ErrUnauthenticated
	}

	if a.hash != nil {
		if bcrypt.CompareHashAndPassword(a.hash, []byte(token)) != nil {
			return ErrForbidden
		}
		return nil
	}

	if subtle.ConstantTimeCompare(a.secret, []byte(token)) != 1 {
		return ErrForbidden
	}
	return nil
}

// HashToken returns a bcrypt hash suitable for API_BEARER_HASH
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
