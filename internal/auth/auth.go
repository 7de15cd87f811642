// Package auth handles PIN verification, lockout counting, PIN changes and
// the administrative credential check. Every login attempt, pass or fail,
// lands in the append-only login history.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/notify"
)

// MaxFailedAttempts is the lockout threshold: the attempt that reaches it
// locks the user until an administrator unlocks them.
const MaxFailedAttempts = 3

// Store is the slice of the repository the service needs.
type Store interface {
	UserByID(ctx context.Context, id string) (*domain.User, error)
	UserByAccountNumber(ctx context.Context, accountNumber string) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	AppendLoginHistory(ctx context.Context, e *domain.LoginHistoryEntry) error
	ListLoginHistoryByUser(ctx context.Context, userID string) ([]*domain.LoginHistoryEntry, error)
	AdminCredentials(ctx context.Context) (*domain.AdminCredentials, error)
}

// Service authenticates customers and the administrator.
type Service struct {
	store  Store
	alerts *notify.Emitter
	log    zerolog.Logger
	now    func() time.Time
}

// New creates an auth service. alerts may be nil.
func New(store Store, alerts *notify.Emitter, log zerolog.Logger) *Service {
	return &Service{store: store, alerts: alerts, log: log, now: time.Now}
}

// Login verifies an account number + PIN pair. A locked user is rejected
// with ErrLocked no matter what PIN is supplied. A wrong PIN increments the
// failure counter; the attempt that reaches MaxFailedAttempts locks the
// user and emits the lockout notification. Success resets the counter.
func (s *Service) Login(ctx context.Context, accountNumber, pin, ip string) (*domain.User, error) {
	user, err := s.store.UserByAccountNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	if user.Locked {
		s.recordAttempt(ctx, user.ID, domain.LoginFailure, ip)
		return nil, fmt.Errorf("%w: contact support to unlock", domain.ErrLocked)
	}

	if user.PIN != pin {
		user.FailedAttempts++
		if user.FailedAttempts >= MaxFailedAttempts {
			user.Locked = true
		}
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("update failed attempts: %w", err)
		}
		s.recordAttempt(ctx, user.ID, domain.LoginFailure, ip)

		if user.Locked {
			s.log.Warn().Str("user_id", user.ID).Msg("User locked after repeated failed logins")
			if s.alerts != nil {
				if err := s.alerts.AccountLocked(ctx, user.ID); err != nil {
					s.log.Warn().Err(err).Str("user_id", user.ID).Msg("Failed to emit lockout notification")
				}
			}
			return nil, fmt.Errorf("%w: too many failed attempts", domain.ErrLocked)
		}
		remaining := MaxFailedAttempts - user.FailedAttempts
		return nil, fmt.Errorf("%w: invalid PIN, %d attempts remaining", domain.ErrAuthentication, remaining)
	}

	if user.FailedAttempts > 0 {
		user.FailedAttempts = 0
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("reset failed attempts: %w", err)
		}
	}
	s.recordAttempt(ctx, user.ID, domain.LoginSuccess, ip)

	s.log.Info().Str("user_id", user.ID).Msg("Login succeeded")
	return user, nil
}

// ChangePIN replaces a user's PIN after verifying the current one.
func (s *Service) ChangePIN(ctx context.Context, userID, currentPIN, newPIN string) error {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PIN != currentPIN {
		return fmt.Errorf("%w: current PIN is incorrect", domain.ErrAuthentication)
	}
	if !domain.ValidPIN(newPIN) {
		return fmt.Errorf("%w: PIN must be 4 digits", domain.ErrValidation)
	}
	if newPIN == currentPIN {
		return fmt.Errorf("%w: new PIN must differ from the current PIN", domain.ErrValidation)
	}

	user.PIN = newPIN
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update PIN: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("PIN changed")
	return nil
}

// UpdateProfile replaces a user's name, email and phone. Account number,
// PIN and lock state are untouched; those change through their own
// operations.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, email, phone string) (*domain.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidEmail(email) {
		return nil, fmt.Errorf("%w: valid email is required", domain.ErrValidation)
	}
	if !domain.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: valid 10-digit phone number is required", domain.ErrValidation)
	}

	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	user.Phone = phone
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	s.log.Info().Str("user_id", userID).Msg("Profile updated")
	return user, nil
}

// SetLocked locks or unlocks a user, resetting the failure counter. This is
// the administrative escape hatch from the lockout terminal state.
func (s *Service) SetLocked(ctx context.Context, userID string, locked bool) (*domain.User, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Locked = locked
	user.FailedAttempts = 0
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update lock state: %w", err)
	}
	s.log.Info().Str("user_id", userID).Bool("locked", locked).Msg("User lock state changed")
	return user, nil
}

// VerifyAdmin checks the administrative console credentials.
func (s *Service) VerifyAdmin(ctx context.Context, username, password string) error {
	creds, err := s.store.AdminCredentials(ctx)
	if err != nil {
		return fmt.Errorf("load admin credentials: %w", err)
	}
	if creds.Username != username || creds.Password != password {
		return fmt.Errorf("%w: invalid admin credentials", domain.ErrAuthentication)
	}
	return nil
}

// IsAuthFailure reports whether err is any authentication-class failure.
func IsAuthFailure(err error) bool {
	return errors.Is(err, domain.ErrAuthentication) || errors.Is(err, domain.ErrLocked)
}

func (s *Service) recordAttempt(ctx context.Context, userID string, status domain.LoginStatus, ip string) {
	entry := &domain.LoginHistoryEntry{
		ID:     uuid.NewString(),
		UserID: userID,
		Date:   s.now(),
		Status: status,
		IP:     ip,
	}
	if err := s.store.AppendLoginHistory(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("Failed to append login history")
	}
}

// LoginHistory returns a user's audit trail, newest first.
func (s *Service) LoginHistory(ctx context.Context, userID string) ([]*domain.LoginHistoryEntry, error) {
	return s.store.ListLoginHistoryByUser(ctx, userID)
}
