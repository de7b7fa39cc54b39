package stores

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
)

// MemoryUserStore is an in-memory UserStore for tests and development. It
// enforces the same invariants as the SQL store: email uniqueness decided
// under one lock, immutable ids, atomic link updates.
type MemoryUserStore struct {
	mu         sync.Mutex
	byID       map[string]*skroll.User
	byEmail    map[string]string
	byGoogleID map[string]string
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:       make(map[string]*skroll.User),
		byEmail:    make(map[string]string),
		byGoogleID: make(map[string]string),
	}
}

func (s *MemoryUserStore) GetUserByID(ctx context.Context, id string) (*skroll.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.byID[id]
	if !ok {
		return nil, skroll.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (s *MemoryUserStore) GetUserByEmail(ctx context.Context, email string) (*skroll.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, skroll.ErrUserNotFound
	}
	return copyUser(s.byID[id]), nil
}

func (s *MemoryUserStore) GetUserByGoogleID(ctx context.Context, googleID string) (*skroll.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byGoogleID[googleID]
	if !ok {
		return nil, skroll.ErrUserNotFound
	}
	return copyUser(s.byID[id]), nil
}

func (s *MemoryUserStore) CreateUser(ctx context.Context, user *skroll.User) (*skroll.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return nil, skroll.ErrEmailExists
	}
	if user.GoogleID != "" {
		if _, taken := s.byGoogleID[user.GoogleID]; taken {
			return nil, skroll.ErrEmailExists
		}
	}

	record := copyUser(user)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	s.byID[record.ID] = record
	s.byEmail[record.Email] = record.ID
	if record.GoogleID != "" {
		s.byGoogleID[record.GoogleID] = record.ID
	}
	return copyUser(record), nil
}

func (s *MemoryUserStore) LinkGoogleID(ctx context.Context, userID, googleID string) (*skroll.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, skroll.ErrUserNotFound
	}
	if other, taken := s.byGoogleID[googleID]; taken && other != userID {
		return nil, skroll.ErrEmailExists
	}

	user.GoogleID = googleID
	user.UpdatedAt = time.Now()
	s.byGoogleID[googleID] = userID
	return copyUser(user), nil
}

func copyUser(u *skroll.User) *skroll.User {
	out := *u
	return &out
}
