package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"

	"hotel_portal/internal/domain"
)

const (
	MinPasswordLen = 5
	MaxPasswordLen = 10
	saltBytes      = 16
)

var (
	hasDigit   = regexp.MustCompile(`\d`)
	hasLetter  = regexp.MustCompile(`[a-zA-Z]`)
	hasSpecial = regexp.MustCompile(`[@$%#]`)
)

// ValidatePassword checks character classes before length, matching the
// order in which the registration form reports problems.
func ValidatePassword(pass string) error {
	if !hasDigit.MatchString(pass) || !hasLetter.MatchString(pass) || !hasSpecial.MatchString(pass) {
		return domain.Fail(domain.InvalidPassword, nil)
	}
	if n := len(pass); n < MinPasswordLen || n > MaxPasswordLen {
		return domain.Fail(domain.InvalidPasswordLength, nil)
	}
	return nil
}

// NewSalt returns 16 random bytes as 32 upper-case hex characters.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// Hash is SHA-256 over salt followed by password, as 64 upper-case hex characters.
func Hash(salt, pass string) string {
	sum := sha256.Sum256([]byte(salt + pass))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Matches reports whether pass hashes to stored under salt.
func Matches(salt, pass, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(Hash(salt, pass)), []byte(strings.ToUpper(stored))) == 1
}
