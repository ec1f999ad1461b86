package tui

import (
	"fmt"
	"strconv"
	"strings"

	"codeberg.org/archviz/studio/archviz/users"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldUsername = iota
	fieldPassword
	fieldDays
	fieldQuota
)

var formLabels = []string{"username", "password", "days", "quota or tier"}

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	return ti
}

func newUserFormModel() newUserForm {
	inputs := []textinput.Model{
		newTextInput("new username"),
		newTextInput("at least 6 characters"),
		newTextInput("30"),
		newTextInput("10, or trial / standard / pro / studio"),
	}

	inputs[fieldPassword].EchoMode = textinput.EchoPassword
	inputs[fieldPassword].EchoCharacter = '•'
	inputs[fieldUsername].Focus()

	return newUserForm{inputs: inputs}
}

// moves focus by delta, wrapping around
func (f *newUserForm) move(delta int) {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focused].Focus()
}

func (f *newUserForm) last() bool {
	return f.focused == len(f.inputs)-1
}

func (f *newUserForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)

	return cmd
}

// builds the create request; the last field is a number or a tier name
func (f *newUserForm) request() (users.CreateRequest, error) {
	req := users.CreateRequest{
		Username: strings.TrimSpace(f.inputs[fieldUsername].Value()),
		Password: f.inputs[fieldPassword].Value(),
	}

	if req.Username == "" || req.Password == "" {
		return req, fmt.Errorf("username and password are required")
	}

	if raw := strings.TrimSpace(f.inputs[fieldDays].Value()); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return req, fmt.Errorf("days must be a positive number")
		}
		req.Days = days
	}

	if raw := strings.TrimSpace(f.inputs[fieldQuota].Value()); raw != "" {
		if quota, err := strconv.Atoi(raw); err == nil {
			req.DailyQuota = quota
		} else {
			req.Tier = strings.ToLower(raw)
		}
	}

	return req, nil
}

func (f *newUserForm) view() string {
	var b strings.Builder

	for i, input := range f.inputs {
		b.WriteString(promptStyle.Render(fmt.Sprintf("%-14s", formLabels[i])))
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	return b.String()
}
