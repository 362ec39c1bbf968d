// Package session reads the persisted auth state written by the marketplace
// login flow. This module never issues, refreshes or writes tokens; it only
// decides whether a session is usable and projects profile defaults into
// forms.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

type Session struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}

// Defaults is the projection used to prefill buyer contact forms.
type Defaults struct {
	Name    string
	Phone   string
	Address string
}

// Load reads session state from path. A missing file is a guest session,
// not an error.
func Load(path string) (Session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, nil
		}
		return Session{}, err
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Valid reports whether the session carries a usable bearer token. Tokens
// that parse as JWTs with an exp claim in the past are rejected; the
// signature is the backend's concern, not ours.
func (s Session) Valid() bool {
	if s.Token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		// Opaque token; let the backend decide.
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return exp.After(time.Now())
}

func (s Session) Defaults() Defaults {
	return Defaults{
		Name:    s.User.Name,
		Phone:   s.User.PhoneNumber,
		Address: s.User.Address,
	}
}
