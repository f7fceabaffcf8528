// Package accounts registers customers, checks their credentials and edits
// their profiles.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-bookstore/apperr"
	"go-bookstore/models"
	"go-bookstore/store"
	"go-bookstore/utils"

	"github.com/rs/zerolog"
)

// ErrInvalidEmailFormat is the registration counterpart of
// apperr.ErrInvalidEmail.
var ErrInvalidEmailFormat = apperr.New(apperr.KindInvalidEmail, "Invalid email format")

// ProfileUpdate carries the editable profile fields. Blank fields are left
// unchanged.
type ProfileUpdate struct {
	Name        string
	Address     string
	NewPassword string
}

type Service struct {
	store  store.AccountStore
	logger zerolog.Logger
}

func NewService(s store.AccountStore, logger zerolog.Logger) *Service {
	return &Service{store: s, logger: logger}
}

// Register creates an account. Emails must be well formed and unique
// regardless of case.
func (s *Service) Register(ctx context.Context, email, password, name, address string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.MissingField("email")
	}
	if !utils.IsValidEmail(email) {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, apperr.MissingField("password")
	}

	user, err := models.NewUser(email, password, name, address)
	if err != nil {
		return nil, fmt.Errorf("new user: %w", err)
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			return nil, apperr.ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info().Str("email", user.Email).Msg("account created")
	return user, nil
}

// Authenticate returns the user for a matching email and password. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.FindUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !user.CheckPassword(password) {
		s.logger.Info().Str("email", user.Email).Msg("login rejected")
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.store.FindUser(ctx, email)
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, apperr.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies upd. A new password is hashed before it is stored.
func (s *Service) UpdateProfile(ctx context.Context, email string, upd ProfileUpdate) (*models.User, error) {
	user, err := s.Profile(ctx, email)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(upd.Name); name != "" {
		user.Name = name
	}
	if address := strings.TrimSpace(upd.Address); address != "" {
		user.Address = address
	}
	if upd.NewPassword != "" {
		if err := user.SetPassword(upd.NewPassword); err != nil {
			return nil, fmt.Errorf("set password: %w", err)
		}
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}
