package quota

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/archviz/studio/archviz/users"
)

func NewService(records Records) *Service {
	return &Service{records: records}
}

// re-reads the record and writes usage+1 for today; the ceiling is not re-checked
func (s *Service) RecordUsage(ctx context.Context, userID, today string) (*users.User, error) {
	if userID == "" {
		return nil, ErrNoSession
	}

	if userID == users.AdminID {
		return nil, nil
	}

	current, err := s.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrNoSession
		}

		return nil, fmt.Errorf("failed to load usage: %w", err)
	}

	next := EffectiveUsage(current, today) + 1

	updated, err := s.records.SetUsage(ctx, userID, next, today)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrNoSession
		}

		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	return updated, nil
}
