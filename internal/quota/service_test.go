package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/archviz/users"
)

type mockRecords struct {
	user     *users.User
	getErr   error
	setErr   error
	setCalls int
}

func (m *mockRecords) Get(_ context.Context, id string) (*users.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}

	if m.user == nil || m.user.ID != id {
		return nil, users.ErrNotFound
	}

	u := *m.user
	return &u, nil
}

func (m *mockRecords) SetUsage(_ context.Context, _ string, count int, date string) (*users.User, error) {
	m.setCalls++

	if m.setErr != nil {
		return nil, m.setErr
	}

	m.user.UsageCount = count
	m.user.LastUsageDate = date
	m.user.Version++

	u := *m.user
	return &u, nil
}

func TestRecordUsage_SameDayIncrements(t *testing.T) {
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 5, UsageCount: 2, LastUsageDate: today}}

	u, err := NewService(records).RecordUsage(context.Background(), "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 3, u.UsageCount)
}

func TestRecordUsage_NewDayStartsAtOne(t *testing.T) {
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 5, UsageCount: 4, LastUsageDate: "2025-03-09"}}

	u, err := NewService(records).RecordUsage(context.Background(), "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 1, u.UsageCount)
	assert.Equal(t, today, u.LastUsageDate)
}

func TestRecordUsage_DoesNotRecheckCeiling(t *testing.T) {
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 2, UsageCount: 2, LastUsageDate: today}}

	u, err := NewService(records).RecordUsage(context.Background(), "u1", today)
	require.NoError(t, err)
	assert.Equal(t, 3, u.UsageCount)
}

func TestRecordUsage_AdminSkipped(t *testing.T) {
	records := &mockRecords{}

	u, err := NewService(records).RecordUsage(context.Background(), users.AdminID, today)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Zero(t, records.setCalls)
}

func TestRecordUsage_Errors(t *testing.T) {
	svc := NewService(&mockRecords{})

	_, err := svc.RecordUsage(context.Background(), "missing", today)
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.RecordUsage(context.Background(), "", today)
	assert.ErrorIs(t, err, ErrNoSession)

	storeErr := errors.New("connection refused")
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 2}, setErr: storeErr}

	_, err = NewService(records).RecordUsage(context.Background(), "u1", today)
	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, records.setCalls)
}
