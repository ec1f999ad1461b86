package quota

import "codeberg.org/archviz/studio/archviz/users"

func NewTracker(userID string, isAdmin bool) *Tracker {
	return &Tracker{userID: userID, isAdmin: isAdmin}
}

// applies a pushed snapshot; returns false when it is stale or for another user
func (t *Tracker) Apply(u users.User) bool {
	if u.ID != t.userID {
		return false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.record != nil && u.Version < t.record.Version {
		return false
	}

	t.record = &u

	return true
}

// drops the record after a deletion push
func (t *Tracker) Clear() {
	t.mu.Lock()
	t.record = nil
	t.mu.Unlock()
}

// latest reconciled view; ok is false before the first snapshot
func (t *Tracker) View(today string) (View, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.record == nil {
		return View{}, false
	}

	return Reconcile(*t.record, today), true
}

func (t *Tracker) Admit(today string) Decision {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return CheckAdmission(t.record, t.isAdmin, today)
}
