package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/archviz/users"
)

func TestTracker_DropsStaleSnapshots(t *testing.T) {
	tr := NewTracker("u1", false)

	_, ok := tr.View(today)
	assert.False(t, ok)
	assert.False(t, tr.Admit(today).Allowed)

	assert.True(t, tr.Apply(users.User{ID: "u1", DailyQuota: 2, UsageCount: 2, LastUsageDate: today, Version: 5}))
	assert.False(t, tr.Apply(users.User{ID: "u1", DailyQuota: 2, UsageCount: 0, LastUsageDate: today, Version: 4}))
	assert.False(t, tr.Apply(users.User{ID: "u2", Version: 9}))

	v, ok := tr.View(today)
	require.True(t, ok)
	assert.Equal(t, 2, v.Usage)
	assert.Equal(t, int64(5), v.Version)
	assert.False(t, tr.Admit(today).Allowed)
}

func TestTracker_AdminAdmittedWithoutRecord(t *testing.T) {
	tr := NewTracker(users.AdminID, true)
	assert.True(t, tr.Admit(today).Allowed)
}

func TestTracker_Clear(t *testing.T) {
	tr := NewTracker("u1", false)
	tr.Apply(users.User{ID: "u1", DailyQuota: 2, Version: 1})
	tr.Clear()

	_, ok := tr.View(today)
	assert.False(t, ok)
}
