package store

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OtpRecord is the ephemeral verification credential for an email address.
type OtpRecord struct {
	Email     string    `json:"email"`
	Code      string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// OTPStore keeps at most one active code per email. A plain SET with TTL
// gives upsert semantics: issuing a new code atomically supersedes the
// outstanding one, so the single-active-record invariant holds even under
// concurrent issuance.
type OTPStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
	now func() time.Time
}

// NewOTPStore builds an OTPStore whose records live for ttl.
func NewOTPStore(rdb redis.UniversalClient, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func otpKey(email string) string { return otpKeyPrefix + email }

// Put stores a fresh code for email, replacing any prior record.
func (s *OTPStore) Put(ctx context.Context, email, code string) (*OtpRecord, error) {
	record := &OtpRecord{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}

	encoded, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, otpKey(email), encoded, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return record, nil
}

// Get returns the outstanding record for email, if any. Used by callers
// that only need to observe state (tests, diagnostics); verification goes
// through Verify.
func (s *OTPStore) Get(ctx context.Context, email string) (*OtpRecord, error) {
	data, err := s.rdb.Get(ctx, otpKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrOTPNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var record OtpRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &record, nil
}

// Verify checks candidate against the outstanding code for email.
//
// Success consumes (deletes) the record: a repeat call with the same code
// fails ErrOTPNotFound. Mismatch and expiry leave the record intact so the
// user can retry until a correct code arrives or the TTL sweeps it.
func (s *OTPStore) Verify(ctx context.Context, email, candidate string) error {
	record, err := s.Get(ctx, email)
	if err != nil {
		return err
	}

	if subtle.ConstantTimeCompare([]byte(record.Code), []byte(candidate)) != 1 {
		return ErrOTPMismatch
	}
	if !s.now().Before(record.ExpiresAt) {
		return ErrOTPExpired
	}

	if err := s.rdb.Del(ctx, otpKey(email)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
