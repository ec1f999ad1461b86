package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"codeberg.org/archviz/studio/archviz/users"
)

const today = "2025-03-10"

func TestCheckAdmission_AdminAlwaysAllowed(t *testing.T) {
	d := CheckAdmission(nil, true, today)
	assert.True(t, d.Allowed)
	assert.True(t, d.IsAdmin)
}

func TestCheckAdmission_SameDay(t *testing.T) {
	u := &users.User{DailyQuota: 3, UsageCount: 2, LastUsageDate: today}

	d := CheckAdmission(u, false, today)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	u.UsageCount = 3
	d = CheckAdmission(u, false, today)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestCheckAdmission_DayRolloverResetsUsage(t *testing.T) {
	u := &users.User{DailyQuota: 3, UsageCount: 99, LastUsageDate: "2025-03-09"}

	d := CheckAdmission(u, false, today)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Usage)
}

func TestCheckAdmission_NoRecordDenied(t *testing.T) {
	assert.False(t, CheckAdmission(nil, false, today).Allowed)
}

func TestReconcile(t *testing.T) {
	v := Reconcile(users.User{DailyQuota: 4, UsageCount: 1, LastUsageDate: today}, today)
	assert.Equal(t, 1, v.Usage)
	assert.InDelta(t, 25.0, v.UsagePercent, 0.001)
	assert.False(t, v.LimitReached)

	v = Reconcile(users.User{DailyQuota: 2, UsageCount: 5, LastUsageDate: today}, today)
	assert.InDelta(t, 100.0, v.UsagePercent, 0.001)
	assert.True(t, v.LimitReached)

	v = Reconcile(users.User{DailyQuota: 2, UsageCount: 5, LastUsageDate: "2025-01-01"}, today)
	assert.Equal(t, 0, v.Usage)
	assert.False(t, v.LimitReached)
}
