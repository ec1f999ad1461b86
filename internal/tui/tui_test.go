package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	mu       sync.Mutex
	calls    []string
	active   *bool
	quota    int
	created  users.CreateRequest
	password string
	mask     string
	err      error
}

func (m *mockAPI) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *mockAPI) SetActive(_ context.Context, id string, active bool) (*users.User, error) {
	m.record("active:" + id)
	m.active = &active
	return &users.User{ID: id, IsActive: active}, m.err
}

func (m *mockAPI) ResetPassword(_ context.Context, id string) (string, error) {
	m.record("password:" + id)
	return m.password, m.err
}

func (m *mockAPI) UpdateQuota(_ context.Context, id string, quota int) error {
	m.record("quota:" + id)
	m.quota = quota
	return m.err
}

func (m *mockAPI) DeleteUser(_ context.Context, id string) error {
	m.record("delete:" + id)
	return m.err
}

func (m *mockAPI) CreateUser(_ context.Context, req users.CreateRequest) (*users.User, error) {
	m.record("create:" + req.Username)
	m.created = req
	return &users.User{ID: "new", Username: req.Username, DailyQuota: 30}, m.err
}

func (m *mockAPI) APIKeyMask(_ context.Context) (string, error) {
	m.record("key:get")
	return m.mask, m.err
}

func (m *mockAPI) SetAPIKey(_ context.Context, _ string) (string, error) {
	m.record("key")
	return "AIza...1234", m.err
}

func (m *mockAPI) ClearAPIKey(_ context.Context) error {
	m.record("key:clear")
	return m.err
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func newTestModel(t *testing.T) (*Model, *mockAPI) {
	t.Helper()

	api := &mockAPI{password: "f00dcafe1234"}
	m := NewApp(api, nil, "admin")
	m.now = func() time.Time { return baseTime }

	older := record("1", "alice", 1, baseTime.Add(-48*time.Hour))
	older.UsageCount = 4
	older.LastUsageDate = users.Today(baseTime)

	newer := record("2", "bob", 1, baseTime.Add(-24*time.Hour))
	newer.UsageCount = 7
	newer.LastUsageDate = "2025-03-09"

	m.Update(snapshotMsg{users: []users.User{older, newer}})

	return m, api
}

func send(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}

	return cmd
}

func TestModel_SnapshotFillsTable(t *testing.T) {
	m, _ := newTestModel(t)

	rows := m.table.Rows()
	require.Len(t, rows, 2)

	// newest first; stale usage shows as zero
	assert.Equal(t, "bob", rows[0][0])
	assert.Equal(t, "0/10", rows[0][2])
	assert.Equal(t, "alice", rows[1][0])
	assert.Equal(t, "4/10", rows[1][2])
	assert.Equal(t, users.StatusActive, rows[1][1])

	assert.Contains(t, m.View(), "total 2")
}

func TestModel_PushedChangesUpdateRows(t *testing.T) {
	m, _ := newTestModel(t)

	changed := record("2", "bob", 2, baseTime.Add(-24*time.Hour))
	changed.IsActive = false
	m.Update(changedMsg{user: changed})

	assert.Equal(t, users.StatusBanned, m.table.Rows()[0][1])

	m.Update(deletedMsg{userID: "2", version: 3})
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "alice", m.table.Rows()[0][0])
}

func TestModel_BanAsksFirst(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "b")
	require.Equal(t, modeConfirm, m.mode)
	assert.Equal(t, `Are you sure you want to BAN user "bob"?`, m.pending.prompt)

	cmd := send(m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, api.calls)

	send(m, "b")
	cmd = send(m, "y")
	require.NotNil(t, cmd)

	msg := cmd()
	assert.Equal(t, actionDoneMsg{status: "banned bob"}, msg)
	require.NotNil(t, api.active)
	assert.False(t, *api.active)
}

func TestModel_DeleteAndResetPrompts(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "x")
	assert.Equal(t, `DANGER: Are you sure you want to PERMANENTLY DELETE user "bob"? This action cannot be undone.`, m.pending.prompt)
	cmd := send(m, "y")
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{status: "deleted bob"}, cmd())

	send(m, "p")
	assert.Equal(t, `Are you sure you want to reset the password of user "bob"?`, m.pending.prompt)
	cmd = send(m, "y")
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{status: "new password for bob: f00dcafe1234"}, cmd())

	assert.Equal(t, []string{"delete:2", "password:2"}, api.calls)
}

func TestModel_QuotaEdit(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "q")
	require.Equal(t, modeQuota, m.mode)
	assert.Equal(t, "10", m.input.Value())

	m.input.SetValue("")
	send(m, "abc")
	send(m, "enter")
	assert.Equal(t, modeQuota, m.mode)
	assert.True(t, m.isError)

	m.input.SetValue("")
	send(m, "25")
	cmd := send(m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, actionDoneMsg{status: "quota of bob set to 25"}, cmd())
	assert.Equal(t, 25, api.quota)
}

func TestModel_SearchFilters(t *testing.T) {
	m, _ := newTestModel(t)

	send(m, "/", "ali")
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "alice", m.table.Rows()[0][0])

	send(m, "enter")
	assert.Equal(t, modeBrowse, m.mode)

	// actions target the filtered selection
	send(m, "b")
	assert.Equal(t, `Are you sure you want to BAN user "alice"?`, m.pending.prompt)
	send(m, "esc")

	send(m, "/", "esc")
	assert.Len(t, m.table.Rows(), 2)
}

func TestModel_NewUserForm(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "n")
	require.Equal(t, modeNewUser, m.mode)

	send(m, "carol", "tab", "secret1", "tab", "14", "tab", "Pro")
	cmd := send(m, "enter")
	require.NotNil(t, cmd)

	assert.Equal(t, actionDoneMsg{status: "created carol (quota 30)"}, cmd())
	assert.Equal(t, users.CreateRequest{Username: "carol", Password: "secret1", Days: 14, Tier: "pro"}, api.created)
}

func TestModel_NewUserFormValidates(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "n", "tab", "tab", "tab")
	cmd := send(m, "enter")

	assert.Nil(t, cmd)
	assert.True(t, m.isError)
	assert.Empty(t, api.calls)
}

func TestModel_ActionErrorsShowInStatus(t *testing.T) {
	m, _ := newTestModel(t)

	m.Update(actionErrMsg{err: assert.AnError})
	assert.True(t, m.isError)
	assert.Contains(t, m.View(), assert.AnError.Error())
}

func TestModel_OperatorKeyLifecycle(t *testing.T) {
	m, api := newTestModel(t)
	api.mask = "AIza...0000"

	// Init batches the feed wait (nil without a feed) with the key lookup
	m.Update(loadKeyMask(api)())
	assert.Contains(t, m.View(), "operator key: AIza...0000")

	send(m, "k")
	assert.Equal(t, modeAPIKey, m.mode)
	assert.Contains(t, m.input.Placeholder, "AIza...0000")

	m.input.SetValue("AIzaNEW1234")
	cmd := send(m, "enter")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Equal(t, modeBrowse, m.mode)
	assert.Contains(t, m.View(), "operator key: AIza...1234")
	assert.Equal(t, "operator API key set to AIza...1234", m.status)

	// an empty submission asks before removing the key
	send(m, "k")
	cmd = send(m, "enter")
	assert.Nil(t, cmd)
	require.Equal(t, modeConfirm, m.mode)
	assert.Equal(t, actionClearAPIKey, m.pending.kind)
	assert.Contains(t, m.View(), "Remove the operator API key AIza...1234?")

	cmd = send(m, "y")
	require.NotNil(t, cmd)
	m.Update(cmd())

	assert.Contains(t, m.View(), "operator key: none")
	assert.Equal(t, "operator API key removed", m.status)
	assert.Equal(t, []string{"key:get", "key", "key:clear"}, api.calls)
}

func TestModel_EmptyKeyWithoutStoredKey(t *testing.T) {
	m, api := newTestModel(t)

	send(m, "k")
	cmd := send(m, "enter")

	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, m.mode)
	assert.True(t, m.isError)
	assert.Empty(t, api.calls)
}
