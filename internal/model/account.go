package model

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// AccountID uniquely identifies an account across the system
type AccountID string

// Account is an identity-provider record for a registered user.
// The password hash is stored alongside the account; it never appears
// in API responses.
type Account struct {
	ID           AccountID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DisplayName derives the player-facing name from the account email:
// the local part (before '@'), capitalized.
func (a *Account) DisplayName() PlayerName {
	return DisplayNameForEmail(a.Email)
}

// DisplayNameForEmail converts an email address to a display name.
// The first rune is upper-cased, not the first byte; local parts are
// not restricted to ASCII.
func DisplayNameForEmail(email string) PlayerName {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(local)
	return PlayerName(string(unicode.ToUpper(first)) + local[size:])
}

// PasswordReset is a pending password-reset request. The token is
// single-use and expires.
type PasswordReset struct {
	Token     string    `json:"token"`
	AccountID AccountID `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
