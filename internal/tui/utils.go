package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/quota"
	"github.com/charmbracelet/bubbles/table"
)

// table columns, widths in cells
func userColumns() []table.Column {
	return []table.Column{
		{Title: "Username", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Usage", Width: 9},
		{Title: "%", Width: 5},
		{Title: "Expires", Width: 10},
		{Title: "Created", Width: 10},
	}
}

// one table row; usage follows the same day rule as the server
func userRow(u users.User, now time.Time) table.Row {
	view := quota.Reconcile(u, users.Today(now))

	return table.Row{
		u.Username,
		users.Status(u, now),
		fmt.Sprintf("%d/%d", view.Usage, view.DailyQuota),
		fmt.Sprintf("%.0f", view.UsagePercent),
		u.ExpiryDate.Format(users.DateLayout),
		u.CreatedAt.Format(users.DateLayout),
	}
}

func statsLine(stats users.Stats) string {
	return statStyle.Render(fmt.Sprintf("total %d", stats.Total)) +
		statStyle.Render(fmt.Sprintf("active %d", stats.Active)) +
		statStyle.Render(fmt.Sprintf("expired %d", stats.Expired))
}

// the y/n question for a pending action
func confirmPrompt(kind actionKind, u users.User) string {
	switch kind {
	case actionToggleActive:
		verb := "BAN"
		if !u.IsActive {
			verb = "ACTIVATE"
		}

		return fmt.Sprintf("Are you sure you want to %s user %q?", verb, u.Username)
	case actionDelete:
		return fmt.Sprintf("DANGER: Are you sure you want to PERMANENTLY DELETE user %q? This action cannot be undone.", u.Username)
	default:
		return fmt.Sprintf("Are you sure you want to reset the password of user %q?", u.Username)
	}
}

func parseQuota(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("quota must be a positive number")
	}

	return n, nil
}
