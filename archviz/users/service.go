package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// validates admin writes, hashes secrets and publishes every change
type Service struct {
	store Store
	bus   Publisher
	now   func() time.Time
}

func NewService(store Store, bus Publisher) *Service {
	return &Service{
		store: store,
		bus:   bus,
		now:   time.Now,
	}
}

// calendar day in UTC used for usage accounting
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// resolves the daily quota from an explicit value or a tier preset
func ResolveQuota(dailyQuota int, tier string) (int, error) {
	if dailyQuota > 0 {
		return dailyQuota, nil
	}

	if dailyQuota < 0 {
		return 0, ErrInvalidQuota
	}

	if tier == "" {
		return DefaultDailyQuota, nil
	}

	quota, ok := Tiers[strings.ToLower(tier)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTier, tier)
	}

	return quota, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	if len(req.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	days := req.Days
	if days == 0 {
		days = DefaultValidityDays
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	quota, err := ResolveQuota(req.DailyQuota, req.Tier)
	if err != nil {
		return nil, err
	}

	if username == AdminID {
		return nil, ErrUsernameTaken
	}

	if _, err := s.store.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()

	user, err := s.store.Create(ctx, NewUser{
		Username:      username,
		PasswordHash:  hash,
		ExpiryDate:    now.UTC().Add(time.Duration(days) * 24 * time.Hour),
		DailyQuota:    quota,
		LastUsageDate: Today(now),
	})
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// ban (false) or activate (true)
func (s *Service) SetActive(ctx context.Context, id string, active bool) (*User, error) {
	user, err := s.store.UpdateActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

func (s *Service) ResetPassword(ctx context.Context, id, password string) (*User, error) {
	if len(password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if CheckPassword(current.PasswordHash, password) {
		return nil, ErrPasswordUnchanged
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.UpdatePassword(ctx, id, hash)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

func (s *Service) UpdateQuota(ctx context.Context, id string, quota int) (*User, error) {
	if quota < 1 {
		return nil, ErrInvalidQuota
	}

	user, err := s.store.UpdateQuota(ctx, id, quota)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

// writes a usage counter computed by the caller
func (s *Service) SetUsage(ctx context.Context, id string, count int, date string) (*User, error) {
	user, err := s.store.UpdateUsage(ctx, id, count, date)
	if err != nil {
		return nil, err
	}

	s.publish(user)

	return user, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.PublishDeleted(id, current.Version+1)
	}

	return nil
}

// verifies a login against stored records
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.store.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrBanned
	}

	if !user.ExpiryDate.After(s.now()) {
		return nil, ErrExpired
	}

	return user, nil
}

func (s *Service) publish(user *User) {
	if s.bus == nil {
		return
	}

	s.bus.PublishChanged(user.ID, user.Version, *user)
}
