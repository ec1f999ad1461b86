package users

import (
	"strings"
	"time"
)

// expired wins over banned, banned over active
func Status(u User, now time.Time) string {
	if u.ExpiryDate.Before(now) {
		return StatusExpired
	}

	if !u.IsActive {
		return StatusBanned
	}

	return StatusActive
}

func ComputeStats(list []User, now time.Time) Stats {
	stats := Stats{Total: len(list)}

	for _, u := range list {
		if u.IsActive && u.ExpiryDate.After(now) {
			stats.Active++
		}

		if u.ExpiryDate.Before(now) {
			stats.Expired++
		}
	}

	return stats
}

// case-insensitive username contains-match; empty query keeps everything
func Filter(list []User, query string) []User {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}

	out := make([]User, 0, len(list))

	for _, u := range list {
		if strings.Contains(strings.ToLower(u.Username), query) {
			out = append(out, u)
		}
	}

	return out
}
