package tui

import (
	"sort"

	"codeberg.org/archviz/studio/archviz/users"
)

func NewRoster() *Roster {
	return &Roster{records: make(map[string]users.User)}
}

// replaces every record with a fresh snapshot
func (r *Roster) Replace(list []users.User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = make(map[string]users.User, len(list))
	for _, u := range list {
		r.records[u.ID] = u
	}

	r.ready = true
}

// stores a pushed record; returns false when an equal or newer version is held
func (r *Roster) Apply(u users.User) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.records[u.ID]; ok && u.Version <= current.Version {
		return false
	}

	r.records[u.ID] = u

	return true
}

// drops a record unless a newer version arrived after the deletion
func (r *Roster) Remove(userID string, version int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.records[userID]
	if !ok || current.Version >= version {
		return false
	}

	delete(r.records, userID)

	return true
}

func (r *Roster) Get(userID string) (users.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.records[userID]

	return u, ok
}

// false until the first snapshot arrives
func (r *Roster) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.ready
}

// every record, newest first
func (r *Roster) All() []users.User {
	r.mu.RLock()
	list := make([]users.User, 0, len(r.records))

	for _, u := range r.records {
		list = append(list, u)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].Username < list[j].Username
		}

		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	return list
}

// records matching the search box, newest first
func (r *Roster) Rows(query string) []users.User {
	return users.Filter(r.All(), query)
}
