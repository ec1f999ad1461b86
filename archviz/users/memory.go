package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// in-process Store for tests and STORE=memory
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]User),
		now:   time.Now,
	}
}

func (s *MemoryStore) Create(_ context.Context, in NewUser) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == in.Username {
			return nil, ErrUsernameTaken
		}
	}

	u := User{
		ID:            uuid.NewString(),
		Username:      in.Username,
		PasswordHash:  in.PasswordHash,
		IsActive:      true,
		ExpiryDate:    in.ExpiryDate,
		CreatedAt:     s.now().UTC(),
		DailyQuota:    in.DailyQuota,
		LastUsageDate: in.LastUsageDate,
		Version:       1,
	}

	s.users[u.ID] = u

	return &u, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (s *MemoryStore) FindByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return &u, nil
		}
	}

	return nil, ErrNotFound
}

func (s *MemoryStore) List(_ context.Context) ([]User, error) {
	s.mu.RLock()
	out := make([]User, 0, len(s.users))

	for _, u := range s.users {
		out = append(out, u)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}

		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *MemoryStore) UpdateActive(_ context.Context, id string, active bool) (*User, error) {
	return s.update(id, func(u *User) { u.IsActive = active })
}

func (s *MemoryStore) UpdatePassword(_ context.Context, id, passwordHash string) (*User, error) {
	return s.update(id, func(u *User) { u.PasswordHash = passwordHash })
}

func (s *MemoryStore) UpdateQuota(_ context.Context, id string, quota int) (*User, error) {
	return s.update(id, func(u *User) { u.DailyQuota = quota })
}

func (s *MemoryStore) UpdateUsage(_ context.Context, id string, count int, date string) (*User, error) {
	return s.update(id, func(u *User) {
		u.UsageCount = count
		u.LastUsageDate = date
	})
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}

	delete(s.users, id)

	return nil
}

func (s *MemoryStore) update(id string, mutate func(u *User)) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	mutate(&u)
	u.Version++
	s.users[id] = u

	return &u, nil
}
