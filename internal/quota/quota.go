// Package quota implements daily usage admission and accounting.
//
// Usage is only meaningful on the day stored in LastUsageDate; on any other day
// it reads as zero. Admission never writes, and RecordUsage increments without
// re-checking the ceiling, so two concurrent generations may both be admitted.
// Strict mode closes that gap with a redis reservation.
package quota

import (
	"math"

	"codeberg.org/archviz/studio/archviz/users"
)

// usage that counts toward today's quota
func EffectiveUsage(u *users.User, today string) int {
	if u == nil || u.LastUsageDate != today {
		return 0
	}

	return u.UsageCount
}

// decides whether the identity may generate today; a nil record with isAdmin is fine
func CheckAdmission(u *users.User, isAdmin bool, today string) Decision {
	if isAdmin {
		return Decision{Allowed: true, IsAdmin: true}
	}

	if u == nil {
		return Decision{}
	}

	usage := EffectiveUsage(u, today)
	remaining := max(u.DailyQuota-usage, 0)

	return Decision{
		Allowed:   usage < u.DailyQuota,
		Usage:     usage,
		Quota:     u.DailyQuota,
		Remaining: remaining,
	}
}

func Reconcile(u users.User, today string) View {
	usage := EffectiveUsage(&u, today)

	percent := 0.0
	if u.DailyQuota > 0 {
		percent = math.Min(float64(usage)/float64(u.DailyQuota)*100, 100)
	}

	return View{
		UserID:        u.ID,
		Username:      u.Username,
		Usage:         usage,
		DailyQuota:    u.DailyQuota,
		UsagePercent:  percent,
		LimitReached:  usage >= u.DailyQuota,
		LastUsageDate: u.LastUsageDate,
		Version:       u.Version,
	}
}

// static view returned for the configured admin
func AdminView(username string) View {
	return View{
		UserID:   users.AdminID,
		Username: username,
	}
}
