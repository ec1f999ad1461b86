package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func NewApp(api API, feed Feed, admin string) *Model {
	t := table.New(
		table.WithColumns(userColumns()),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles())

	search := newTextInput("search usernames")
	search.Prompt = "/ "

	return &Model{
		api:    api,
		feed:   feed,
		roster: NewRoster(),
		table:  t,
		search: search,
		input:  newTextInput(""),
		mode:   modeBrowse,
		admin:  admin,
		status: "waiting for users...",
		now:    time.Now,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(waitForFeed(m.feed), loadKeyMask(m.api))
}

// fetches the operator key's masked form for the header
func loadKeyMask(api API) tea.Cmd {
	return keyCmd(func(ctx context.Context) (string, string, error) {
		mask, err := api.APIKeyMask(ctx)
		return mask, "", err
	})
}

// like apiCmd, for calls that change the operator key
func keyCmd(fn func(ctx context.Context) (string, string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		mask, status, err := fn(ctx)
		if err != nil {
			return actionErrMsg{err: err}
		}

		return keyMaskMsg{mask: mask, status: status}
	}
}

// blocks until the feed has the next message
func waitForFeed(feed Feed) tea.Cmd {
	if feed == nil {
		return nil
	}

	return func() tea.Msg {
		msg, ok := <-feed.Events()
		if !ok {
			return connectionMsg{online: false}
		}

		return msg
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-12, 5))
		m.helpText = ""

		return m, nil

	case snapshotMsg:
		m.roster.Replace(msg.users)
		m.refreshTable()
		m.setStatus(fmt.Sprintf("loaded %d users", len(msg.users)), false)

		return m, waitForFeed(m.feed)

	case changedMsg:
		if m.roster.Apply(msg.user) {
			m.refreshTable()
		}

		return m, waitForFeed(m.feed)

	case deletedMsg:
		if m.roster.Remove(msg.userID, msg.version) {
			m.refreshTable()
		}

		return m, waitForFeed(m.feed)

	case connectionMsg:
		m.online = msg.online
		if msg.err != nil {
			m.setStatus("disconnected: "+msg.err.Error(), true)
		}

		return m, waitForFeed(m.feed)

	case actionDoneMsg:
		m.setStatus(msg.status, false)
		return m, nil

	case actionErrMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil

	case keyMaskMsg:
		m.keyMask = msg.mask
		if msg.status != "" {
			m.setStatus(msg.status, false)
		}

		return m, nil

	case feedErrMsg:
		m.setStatus(msg.err.Error(), true)
		return m, waitForFeed(m.feed)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeQuota:
		return m.updateQuota(msg)
	case modeNewUser:
		return m.updateNewUser(msg)
	case modeAPIKey:
		return m.updateAPIKey(msg)
	case modeHelp:
		m.mode = modeBrowse
		return m, nil
	default:
		return m.updateBrowse(msg)
	}
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.mode = modeSearch
		return m, m.search.Focus()

	case "b", "x", "p":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}

		kind := map[string]actionKind{
			"b": actionToggleActive,
			"x": actionDelete,
			"p": actionResetPassword,
		}[msg.String()]

		m.pending = &pendingAction{kind: kind, user: u, prompt: confirmPrompt(kind, u)}
		m.mode = modeConfirm

		return m, nil

	case "q":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}

		m.pending = &pendingAction{user: u}
		m.input = newTextInput("daily quota")
		m.input.SetValue(strconv.Itoa(u.DailyQuota))
		m.mode = modeQuota

		return m, m.input.Focus()

	case "n":
		m.form = newUserFormModel()
		m.mode = modeNewUser
		return m, nil

	case "k":
		placeholder := "operator API key"
		if m.keyMask != "" {
			placeholder = "replace " + m.keyMask + " (empty to remove)"
		}

		m.input = newTextInput(placeholder)
		m.input.EchoMode = textinput.EchoPassword
		m.mode = modeAPIKey
		return m, m.input.Focus()

	case "?":
		if m.helpText == "" {
			m.helpText = renderHelp(m.width)
		}
		m.mode = modeHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.mode = modeBrowse
		m.refreshTable()
		return m, nil

	case "enter":
		m.search.Blur()
		m.mode = modeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshTable()

	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.pending

	switch strings.ToLower(msg.String()) {
	case "y":
		m.pending = nil
		m.mode = modeBrowse
		return m, m.runAction(pending)

	case "n", "esc":
		m.pending = nil
		m.mode = modeBrowse
		m.setStatus("cancelled", false)
		return m, nil
	}

	return m, nil
}

func (m *Model) updateQuota(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pending = nil
		m.mode = modeBrowse
		return m, nil

	case "enter":
		quota, err := parseQuota(m.input.Value())
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}

		u := m.pending.user
		m.pending = nil
		m.mode = modeBrowse

		api := m.api
		return m, apiCmd(func(ctx context.Context) (string, error) {
			if err := api.UpdateQuota(ctx, u.ID, quota); err != nil {
				return "", err
			}

			return fmt.Sprintf("quota of %s set to %d", u.Username, quota), nil
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *Model) updateNewUser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "tab", "down":
		m.form.move(1)
		return m, nil

	case "shift+tab", "up":
		m.form.move(-1)
		return m, nil

	case "enter":
		if !m.form.last() {
			m.form.move(1)
			return m, nil
		}

		req, err := m.form.request()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}

		m.mode = modeBrowse

		api := m.api
		return m, apiCmd(func(ctx context.Context) (string, error) {
			u, err := api.CreateUser(ctx, req)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("created %s (quota %d)", u.Username, u.DailyQuota), nil
		})
	}

	return m, m.form.update(msg)
}

func (m *Model) updateAPIKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "enter":
		key := strings.TrimSpace(m.input.Value())
		if key == "" {
			if m.keyMask == "" {
				m.setStatus("API key cannot be empty", true)
				m.mode = modeBrowse
				return m, nil
			}

			m.pending = &pendingAction{
				kind:   actionClearAPIKey,
				prompt: fmt.Sprintf("Remove the operator API key %s?", m.keyMask),
			}
			m.mode = modeConfirm

			return m, nil
		}

		m.mode = modeBrowse

		api := m.api
		return m, keyCmd(func(ctx context.Context) (string, string, error) {
			masked, err := api.SetAPIKey(ctx, key)
			if err != nil {
				return "", "", err
			}

			return masked, "operator API key set to " + masked, nil
		})
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// runs a confirmed action; the feed brings the resulting record change
func (m *Model) runAction(p *pendingAction) tea.Cmd {
	if p == nil {
		return nil
	}

	api := m.api
	u := p.user

	switch p.kind {
	case actionToggleActive:
		return apiCmd(func(ctx context.Context) (string, error) {
			if _, err := api.SetActive(ctx, u.ID, !u.IsActive); err != nil {
				return "", err
			}

			if u.IsActive {
				return "banned " + u.Username, nil
			}

			return "activated " + u.Username, nil
		})

	case actionClearAPIKey:
		return keyCmd(func(ctx context.Context) (string, string, error) {
			if err := api.ClearAPIKey(ctx); err != nil {
				return "", "", err
			}

			return "", "operator API key removed", nil
		})

	case actionDelete:
		return apiCmd(func(ctx context.Context) (string, error) {
			if err := api.DeleteUser(ctx, u.ID); err != nil {
				return "", err
			}

			return "deleted " + u.Username, nil
		})

	default:
		return apiCmd(func(ctx context.Context) (string, error) {
			password, err := api.ResetPassword(ctx, u.ID)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("new password for %s: %s", u.Username, password), nil
		})
	}
}

func apiCmd(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		status, err := fn(ctx)
		if err != nil {
			return actionErrMsg{err: err}
		}

		return actionDoneMsg{status: status}
	}
}

// the record under the table cursor
func (m *Model) selected() (users.User, bool) {
	row := m.table.SelectedRow()
	if row == nil {
		return users.User{}, false
	}

	for _, u := range m.roster.Rows(m.search.Value()) {
		if u.Username == row[0] {
			return u, true
		}
	}

	return users.User{}, false
}

func (m *Model) refreshTable() {
	now := m.now()
	list := m.roster.Rows(m.search.Value())

	rows := make([]table.Row, 0, len(list))
	for _, u := range list {
		rows = append(rows, userRow(u, now))
	}

	m.table.SetRows(rows)

	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m *Model) setStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func (m *Model) View() string {
	if m.mode == modeHelp {
		return m.helpText + helpStyle.Render("press any key to return")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")

	conn := offlineStyle.Render("● offline")
	if m.online {
		conn = onlineStyle.Render("● live")
	}

	b.WriteString(statsLine(users.ComputeStats(m.roster.All(), m.now())))
	b.WriteString(conn)
	b.WriteString(statStyle.Render("  signed in as " + m.admin))

	keyState := "  operator key: none"
	if m.keyMask != "" {
		keyState = "  operator key: " + m.keyMask
	}
	b.WriteString(statStyle.Render(keyState))
	b.WriteString("\n\n")

	if m.mode == modeSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	b.WriteString(borderStyle.Render(m.table.View()))
	b.WriteString("\n")

	switch m.mode {
	case modeConfirm:
		style := confirmStyle
		if m.pending.kind == actionDelete || m.pending.kind == actionClearAPIKey {
			style = dangerStyle
		}
		b.WriteString(style.Render(m.pending.prompt + " (y/n)"))

	case modeQuota:
		b.WriteString(promptStyle.Render("daily quota for " + m.pending.user.Username + " "))
		b.WriteString(m.input.View())

	case modeNewUser:
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Render("new user"))
		b.WriteString("\n")
		b.WriteString(m.form.view())

	case modeAPIKey:
		b.WriteString(promptStyle.Render("operator API key "))
		b.WriteString(m.input.View())

	default:
		if m.isError {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ search · b ban · x delete · p password · q quota · n new · k api key · ? help · ctrl+c quit"))

	return b.String()
}
