package editor

import (
	"context"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/quota"
)

// today's usage as last pushed for this identity; the tracker is seeded from
// the store when nothing has been pushed yet. The view is nil for admins and
// for unknown records.
func (s *Session) Quota(ctx context.Context) (*quota.View, quota.Decision, error) {
	today := users.Today(s.deps.now())

	if s.identity.IsAdmin {
		return nil, s.tracker.Admit(today), nil
	}

	view, ok := s.tracker.View(today)
	if !ok && s.deps.Accounts != nil {
		u, err := s.deps.Accounts.Get(ctx, s.identity.UserID)
		if err != nil {
			return nil, quota.Decision{}, err
		}

		s.tracker.Apply(*u)
		view, ok = s.tracker.View(today)
	}

	if !ok {
		return nil, quota.Decision{}, nil
	}

	return &view, s.tracker.Admit(today), nil
}

// View plus the quota fields
func (s *Session) ViewWithQuota(ctx context.Context) (View, error) {
	v := s.View()

	q, decision, err := s.Quota(ctx)
	if err != nil {
		return v, err
	}

	v.Quota = q
	if q != nil || s.identity.IsAdmin {
		v.Allowance = &decision
	}

	return v, nil
}
