package service

import (
	"context"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
)

// maxFailedLogins locks an account after this many consecutive failures.
const maxFailedLogins = 5

// AuthService resolves a caller identity into a user record. The identity
// itself comes from the external auth provider; this service only owns the
// read contract plus the lockout bookkeeping.
type AuthService struct {
	users UserRepository
}

func NewAuthService(users UserRepository) *AuthService {
	return &AuthService{users: users}
}

// ResolveUser turns a caller-supplied user id into a session user, rejecting
// unknown, inactive and locked accounts.
func (s *AuthService) ResolveUser(ctx context.Context, userID int) (*domain.User, error) {
	if userID <= 0 {
		return nil, domain.ErrNotAuthenticated
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Locked {
		return nil, domain.ErrAccountLocked
	}
	if !user.Active {
		return nil, domain.ErrUserInactive
	}
	return user, nil
}

func (s *AuthService) IsAdmin(user *domain.User) bool {
	return user != nil && user.Role == domain.RoleAdmin
}

// RecordLogin stamps a successful login and clears the failure counter.
func (s *AuthService) RecordLogin(ctx context.Context, userID int) error {
	if err := s.users.RecordLogin(ctx, userID, time.Now()); err != nil {
		return err
	}
	return s.users.SetUserLockState(ctx, userID, 0, false)
}

// RecordFailedLogin increments the failure counter and locks the account once
// it reaches the limit.
func (s *AuthService) RecordFailedLogin(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}

	attempts := user.FailedLoginAttempts + 1
	locked := attempts >= maxFailedLogins
	return s.users.SetUserLockState(ctx, user.ID, attempts, locked)
}

var _ AuthServiceInterface = (*AuthService)(nil)
