package quota

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/archviz/studio/archviz/users"
)

type mockReserver struct {
	taken    int
	seeded   bool
	released int
}

func (m *mockReserver) Seed(_ context.Context, _, _ string, usage int) error {
	if !m.seeded {
		m.taken = usage
		m.seeded = true
	}
	return nil
}

func (m *mockReserver) Reserve(_ context.Context, _, _ string, limit int) (bool, error) {
	if m.taken >= limit {
		return false, nil
	}
	m.taken++
	return true, nil
}

func (m *mockReserver) Release(_ context.Context, _, _ string) error {
	m.released++
	if m.taken > 0 {
		m.taken--
	}
	return nil
}

func TestGate_LenientAllowsOvershoot(t *testing.T) {
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 1, LastUsageDate: today}}
	gate := NewGate(records, nil)

	first, err := gate.Admit(context.Background(), "u1", false, today)
	require.NoError(t, err)
	second, err := gate.Admit(context.Background(), "u1", false, today)
	require.NoError(t, err)

	assert.True(t, first.Allowed)
	assert.True(t, second.Allowed)
	assert.False(t, gate.Strict())
}

func TestGate_StrictReservesSlots(t *testing.T) {
	records := &mockRecords{user: &users.User{ID: "u1", DailyQuota: 1, LastUsageDate: today}}
	reserver := &mockReserver{}
	gate := NewGate(records, reserver)
	ctx := context.Background()

	first, err := gate.Admit(ctx, "u1", false, today)
	require.NoError(t, err)
	assert.True(t, first.Allowed)

	second, err := gate.Admit(ctx, "u1", false, today)
	require.NoError(t, err)
	assert.False(t, second.Allowed)

	require.NoError(t, gate.Release(ctx, "u1", false, today))

	third, err := gate.Admit(ctx, "u1", false, today)
	require.NoError(t, err)
	assert.True(t, third.Allowed)
}

func TestGate_AdminAndMissingRecord(t *testing.T) {
	gate := NewGate(&mockRecords{}, &mockReserver{})

	d, err := gate.Admit(context.Background(), users.AdminID, true, today)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	_, err = gate.Admit(context.Background(), "ghost", false, today)
	assert.ErrorIs(t, err, ErrNoSession)
}
