// Package auth registers users and checks their salted password hashes.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_portal/internal/domain"
)

// LoginLayout renders login stamps, e.g. "09:41 PM on Tue, Mar 05, 2024".
const LoginLayout = "03:04 PM on Mon, Jan 02, 2006"

type Service struct {
	users domain.UserRepository
	now   func() time.Time
}

func NewService(users domain.UserRepository) *Service {
	return &Service{users: users, now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register validates the password, then the user name, and stores a fresh salt and hash.
func (s *Service) Register(ctx context.Context, user, pass string) error {
	if err := ValidatePassword(pass); err != nil {
		return err
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return domain.Failf(domain.InvalidLogin, "blank user name")
	}
	if err := s.users.DuplicateUser(ctx, user); err != nil {
		return err
	}
	salt, err := NewSalt()
	if err != nil {
		return domain.Fail(domain.Error, err)
	}
	if err := s.users.RegisterUser(ctx, user, Hash(salt, pass), salt); err != nil {
		return err
	}
	log.Info().Str("user", user).Msg("user registered")
	return nil
}

// Authenticate recomputes the hash with the stored salt. Unknown users and
// wrong passwords both report InvalidLogin.
func (s *Service) Authenticate(ctx context.Context, user, pass string) error {
	user = strings.TrimSpace(user)
	if user == "" || pass == "" {
		return domain.Fail(domain.InvalidLogin, nil)
	}
	salt, err := s.users.UserSalt(ctx, user)
	if errors.Is(err, domain.InvalidUser) {
		return domain.Fail(domain.InvalidLogin, err)
	}
	if err != nil {
		return err
	}
	return s.users.Authenticate(ctx, user, Hash(salt, pass))
}

// Login authenticates and rotates the last/current login stamps.
func (s *Service) Login(ctx context.Context, user, pass string) error {
	if err := s.Authenticate(ctx, user, pass); err != nil {
		return err
	}
	return s.users.UpdateLastLogin(ctx, strings.TrimSpace(user), s.now().Format(LoginLayout))
}

// LastLoginMessage is the greeting shown after login.
func (s *Service) LastLoginMessage(ctx context.Context, user string) (string, error) {
	lt, err := s.users.LastLogin(ctx, user)
	if err != nil {
		return "", err
	}
	if lt.Last == "" {
		return "First login at " + s.now().Format(LoginLayout), nil
	}
	return "Last logged in at " + lt.Last, nil
}

// Remove deletes the account after checking the password.
func (s *Service) Remove(ctx context.Context, user, pass string) error {
	if err := s.Authenticate(ctx, user, pass); err != nil {
		return err
	}
	return s.users.RemoveUser(ctx, strings.TrimSpace(user))
}
