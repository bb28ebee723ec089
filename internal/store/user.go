package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nextjob/nextjob/internal/password"
)

// Role enumerates the account roles. The canonical set follows the
// EMPLOYER/USER/ADMIN schema revision; see DESIGN.md.
type Role string

const (
	RoleEmployer Role = "EMPLOYER"
	RoleUser     Role = "USER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployer, RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted identity record. PasswordHash never reaches a
// client: the json tag strips it from every response body.
type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsVerified   bool      `json:"isVerified"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// userDocument is the wire form written to Redis; unlike User it carries
// the password hash.
type userDocument struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	IsVerified   bool      `json:"isVerified"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (d userDocument) user() *User {
	return &User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsVerified:   d.IsVerified,
		Role:         d.Role,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func document(u *User) userDocument {
	return userDocument{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsVerified:   u.IsVerified,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// UserPatch is a partial update. Nil fields are left untouched; the
// password is re-hashed only when Password is set, which rules out the
// double-hash bug class on unrelated field updates.
type UserPatch struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *Role
	IsVerified *bool
}

// UserStore keeps user documents plus the unique email index.
type UserStore struct {
	rdb redis.UniversalClient
	now func() time.Time
}

// NewUserStore builds a UserStore on the given Redis client.
func NewUserStore(rdb redis.UniversalClient) *UserStore {
	return &UserStore{rdb: rdb, now: time.Now}
}

func userKey(id string) string { return userKeyPrefix + id }

func emailKey(email string) string { return emailKeyPrefix + email }

// Create registers a new, unverified user. The plaintext password is
// hashed before anything is written; it is never persisted or logged.
func (s *UserStore) Create(ctx context.Context, name, email, plaintext string, role Role) (*User, error) {
	if name == "" || email == "" || plaintext == "" || !role.Valid() {
		return nil, ErrInvalidInput
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsVerified:   false,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	ok, err := s.rdb.SetNX(ctx, emailKey(email), user.ID, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !ok {
		return nil, ErrEmailTaken
	}

	if err := s.write(ctx, user); err != nil {
		// Roll the index claim back so the email is not left orphaned.
		s.rdb.Del(ctx, emailKey(email))
		return nil, err
	}

	return user, nil
}

func (s *UserStore) write(ctx context.Context, user *User) error {
	encoded, err := json.Marshal(document(user))
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(user.ID), encoded, 0)
		pipe.SAdd(ctx, userSetKey, user.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// GetByID fetches a user document by id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	data, err := s.rdb.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var doc userDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return doc.user(), nil
}

// GetByEmail resolves the email index and fetches the document. Emails
// match case-sensitively, exactly as stored.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	id, err := s.rdb.Get(ctx, emailKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return s.GetByID(ctx, id)
}

// VerifyPassword reports whether candidate is the user's current password.
func (s *UserStore) VerifyPassword(user *User, candidate string) bool {
	return password.Verify(user.PasswordHash, candidate)
}

// Update applies a partial update to the user with the given id. Only a
// patch that carries a password triggers re-hashing; an email change moves
// the unique index, failing with ErrEmailTaken when the target is claimed.
func (s *UserStore) Update(ctx context.Context, id string, patch UserPatch) (*User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, ErrInvalidInput
		}
		user.Name = *patch.Name
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if *patch.Email == "" {
			return nil, ErrInvalidInput
		}
		ok, err := s.rdb.SetNX(ctx, emailKey(*patch.Email), user.ID, 0).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if !ok {
			return nil, ErrEmailTaken
		}
		if err := s.rdb.Del(ctx, emailKey(user.Email)).Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, ErrInvalidInput
		}
		hash, err := password.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return nil, ErrInvalidInput
		}
		user.Role = *patch.Role
	}
	if patch.IsVerified != nil {
		user.IsVerified = *patch.IsVerified
	}

	user.UpdatedAt = s.now().UTC()

	if err := s.write(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user document, its email index entry, and its member
// set entry. Deletion is permanent and does not cascade to job documents.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey(id), emailKey(user.Email))
		pipe.SRem(ctx, userSetKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// List returns every user, oldest first.
func (s *UserStore) List(ctx context.Context) ([]*User, error) {
	ids, err := s.rdb.SMembers(ctx, userSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(ids) == 0 {
		return []*User{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}

	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	users := make([]*User, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Document deleted between SMEMBERS and MGET.
			continue
		}
		var doc userDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		users = append(users, doc.user())
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
