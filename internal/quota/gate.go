package quota

import (
	"context"
	"errors"
	"fmt"

	"codeberg.org/archviz/studio/archviz/users"
)

// reserver may be nil; the gate then allows the concurrent overshoot
func NewGate(records Records, reserver Reserver) *Gate {
	return &Gate{records: records, reserver: reserver}
}

func (g *Gate) Strict() bool {
	return g.reserver != nil
}

// checks the current record; in strict mode an allowed decision also holds a slot
func (g *Gate) Admit(ctx context.Context, userID string, isAdmin bool, today string) (Decision, error) {
	if isAdmin {
		return CheckAdmission(nil, true, today), nil
	}

	u, err := g.records.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Decision{}, ErrNoSession
		}

		return Decision{}, fmt.Errorf("failed to load quota: %w", err)
	}

	decision := CheckAdmission(u, false, today)
	if !decision.Allowed || g.reserver == nil {
		return decision, nil
	}

	if err := g.reserver.Seed(ctx, userID, today, decision.Usage); err != nil {
		return Decision{}, err
	}

	ok, err := g.reserver.Reserve(ctx, userID, today, u.DailyQuota)
	if err != nil {
		return Decision{}, err
	}

	if !ok {
		decision.Allowed = false
		decision.Remaining = 0
	}

	return decision, nil
}

// gives back a slot held by Admit after a failed generation
func (g *Gate) Release(ctx context.Context, userID string, isAdmin bool, today string) error {
	if g.reserver == nil || isAdmin {
		return nil
	}

	return g.reserver.Release(ctx, userID, today)
}
