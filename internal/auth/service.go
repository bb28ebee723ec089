// Package auth orchestrates the account state machine:
//
//	Unregistered -> Registered(unverified) -> Verified
//
// Registration creates an unverified user and issues an OTP; verification
// consumes the OTP and flips the flag; login requires a verified account
// and yields a bearer token. Store and token failures pass through as
// typed errors for the HTTP boundary to map.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nextjob/nextjob/internal/mailer"
	"github.com/nextjob/nextjob/internal/store"
	"github.com/nextjob/nextjob/internal/token"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password with a
	// single identical failure, so responses cannot be used to probe which
	// accounts exist.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrNotVerified refuses login for accounts that have not completed
	// email verification. Only surfaced after the password check passed.
	ErrNotVerified = errors.New("auth: email not verified")
)

// Service wires the credential store, OTP store, token manager, and mail
// sender into the authentication flows.
type Service struct {
	users  *store.UserStore
	otps   *store.OTPStore
	tokens *token.Manager
	mail   mailer.Sender
	log    *slog.Logger
}

// NewService builds the flow controller from its collaborators.
func NewService(users *store.UserStore, otps *store.OTPStore, tokens *token.Manager, mail mailer.Sender, log *slog.Logger) *Service {
	return &Service{users: users, otps: otps, tokens: tokens, mail: mail, log: log}
}

// Register creates an unverified account and issues a verification OTP.
// No token is returned: verification gates the first login.
func (s *Service) Register(ctx context.Context, name, email, plaintext string, role store.Role) (*store.User, error) {
	user, err := s.users.Create(ctx, name, email, plaintext, role)
	if err != nil {
		return nil, err
	}

	if err := s.issueOTP(ctx, email); err != nil {
		// The account exists either way; the user can re-request a code.
		return nil, err
	}
	return user, nil
}

// RequestOTP re-issues a verification code, superseding any outstanding
// one. Requesting a new code invalidates the old one, which keeps "resend
// OTP" free of stale-code confusion.
func (s *Service) RequestOTP(ctx context.Context, email string) error {
	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		return err
	}
	return s.issueOTP(ctx, email)
}

// issueOTP persists a fresh code and then attempts delivery. A delivery
// failure is logged, not returned: the record is already durable and the
// caller must treat issuance as "code exists".
func (s *Service) issueOTP(ctx context.Context, email string) error {
	code, err := generateCode()
	if err != nil {
		return err
	}
	if _, err := s.otps.Put(ctx, email, code); err != nil {
		return err
	}

	if err := s.mail.SendOTP(ctx, email, code); err != nil {
		s.log.Error("otp delivery failed", "email", email, "err", err)
	}
	return nil
}

// VerifyEmail consumes the OTP and marks the account verified. Verifying
// an already-verified account with a fresh code succeeds harmlessly.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) (*store.User, error) {
	if err := s.otps.Verify(ctx, email, code); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return user, nil
	}

	verified := true
	return s.users.Update(ctx, user.ID, store.UserPatch{IsVerified: &verified})
}

// Login checks credentials and issues a bearer token. Unknown email and
// wrong password fail identically; an unverified account is refused only
// after the password matched.
func (s *Service) Login(ctx context.Context, email, plaintext string) (string, *store.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.users.VerifyPassword(user, plaintext) {
		return "", nil, ErrInvalidCredentials
	}
	if !user.IsVerified {
		return "", nil, ErrNotVerified
	}

	tok, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	return tok, user, nil
}

// Profile returns the account with the given id.
func (s *Service) Profile(ctx context.Context, id string) (*store.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies a self-service patch (name, email, password).
func (s *Service) UpdateProfile(ctx context.Context, id string, patch store.UserPatch) (*store.User, error) {
	return s.users.Update(ctx, id, patch)
}

// DeleteProfile permanently removes the account.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

// ListUsers returns every account (admin listing).
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	return s.users.List(ctx)
}

// UserByEmail returns the account registered under email.
func (s *Service) UserByEmail(ctx context.Context, email string) (*store.User, error) {
	return s.users.GetByEmail(ctx, email)
}
