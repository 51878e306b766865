package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goSession/kv"
)

const (
	// DefaultTokenKey is the medium key holding the serialized token pair.
	DefaultTokenKey = "@marketspace:token"
	// DefaultUserKey is the medium key holding the serialized user profile.
	DefaultUserKey = "@marketspace:user"
)

// ErrStorage wraps any failure of the underlying medium.
var ErrStorage = errors.New("session storage failure")

// ErrCorrupt is returned when a stored value cannot be decoded.
var ErrCorrupt = errors.New("session record corrupt")

// ErrIncompletePair is returned when saving a token pair with a missing half.
var ErrIncompletePair = errors.New("token pair incomplete")

// ErrEmptyProfile is returned when saving a profile without an id.
var ErrEmptyProfile = errors.New("user profile empty")

// CredentialStore persists the token pair under a single key.
type CredentialStore struct {
	medium kv.Medium
	key    string
}

// NewCredentialStore binds a store to key on medium. An empty key uses [DefaultTokenKey].
func NewCredentialStore(medium kv.Medium, key string) *CredentialStore {
	if key == "" {
		key = DefaultTokenKey
	}
	return &CredentialStore{medium: medium, key: key}
}

// Key returns the medium key this store writes to.
func (s *CredentialStore) Key() string { return s.key }

// Save writes p. Both halves must be present.
func (s *CredentialStore) Save(ctx context.Context, p TokenPair) error {
	value, err := encodeTokenPair(p)
	if err != nil {
		return err
	}
	if err := s.medium.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorage, s.key, err)
	}
	return nil
}

// Get reads the stored pair. ok is false when nothing is stored.
func (s *CredentialStore) Get(ctx context.Context) (TokenPair, bool, error) {
	value, ok, err := s.medium.Get(ctx, s.key)
	if err != nil {
		return TokenPair{}, false, fmt.Errorf("%w: get %s: %w", ErrStorage, s.key, err)
	}
	if !ok {
		return TokenPair{}, false, nil
	}
	return decodeTokenPair(value)
}

// Remove clears the stored pair.
func (s *CredentialStore) Remove(ctx context.Context) error {
	if err := s.medium.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStorage, s.key, err)
	}
	return nil
}

// ProfileStore persists the last authenticated user profile under a single key.
type ProfileStore struct {
	medium kv.Medium
	key    string
}

// NewProfileStore binds a store to key on medium. An empty key uses [DefaultUserKey].
func NewProfileStore(medium kv.Medium, key string) *ProfileStore {
	if key == "" {
		key = DefaultUserKey
	}
	return &ProfileStore{medium: medium, key: key}
}

// Key returns the medium key this store writes to.
func (s *ProfileStore) Key() string { return s.key }

func (s *ProfileStore) Save(ctx context.Context, u *UserProfile) error {
	value, err := encodeProfile(u)
	if err != nil {
		return err
	}
	if err := s.medium.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrStorage, s.key, err)
	}
	return nil
}

func (s *ProfileStore) Get(ctx context.Context) (*UserProfile, bool, error) {
	value, ok, err := s.medium.Get(ctx, s.key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %s: %w", ErrStorage, s.key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return decodeProfile(value)
}

func (s *ProfileStore) Remove(ctx context.Context) error {
	if err := s.medium.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrStorage, s.key, err)
	}
	return nil
}
