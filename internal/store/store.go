// Package store persists user and OTP documents in Redis.
//
// Documents are JSON values under typed key prefixes. Email uniqueness is
// enforced with a SETNX index key, which keeps duplicate registration a
// detectable conflict even under concurrent attempts. OTP records are
// written with a TTL so Redis itself sweeps expired codes.
package store

import "errors"

var (
	// ErrInvalidInput reports a create or update with missing required fields.
	ErrInvalidInput = errors.New("store: invalid input")
	// ErrEmailTaken reports a registration conflict on the unique email index.
	ErrEmailTaken = errors.New("store: email already registered")
	// ErrUserNotFound reports a lookup miss for a user document.
	ErrUserNotFound = errors.New("store: user not found")
	// ErrUnavailable wraps transport-level Redis failures.
	ErrUnavailable = errors.New("store: redis unavailable")

	// ErrOTPNotFound reports a verification attempt with no outstanding code.
	ErrOTPNotFound = errors.New("store: otp not found")
	// ErrOTPMismatch reports a code that does not match the outstanding one.
	ErrOTPMismatch = errors.New("store: otp mismatch")
	// ErrOTPExpired reports a code presented at or after its expiry.
	ErrOTPExpired = errors.New("store: otp expired")
)

const (
	userKeyPrefix  = "user:"
	emailKeyPrefix = "user:email:"
	userSetKey     = "users"
	otpKeyPrefix   = "otp:"
)
