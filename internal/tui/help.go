package tui

import (
	"github.com/charmbracelet/glamour"
)

const helpMarkdown = `# Admin console

| key | action |
|---|---|
| ` + "`/`" + ` | search usernames |
| ` + "`b`" + ` | ban or activate the selected user |
| ` + "`x`" + ` | delete the selected user |
| ` + "`p`" + ` | reset the selected user's password |
| ` + "`q`" + ` | edit the daily quota |
| ` + "`n`" + ` | create a user |
| ` + "`k`" + ` | set or remove the operator API key (submit empty to remove) |
| ` + "`?`" + ` | toggle this help |
| ` + "`ctrl+c`" + ` | quit |

Usage shows zero when the last recorded use is not from today.
Ban, delete, password reset and key removal ask for confirmation with ` + "`y`" + ` or ` + "`n`" + `.

In the create form the last field takes a number for a custom daily quota
or a tier name: ` + "`trial`" + `, ` + "`standard`" + `, ` + "`pro`" + ` or ` + "`studio`" + `.
`

// renders the help page; falls back to the raw markdown when rendering fails
func renderHelp(width int) string {
	if width <= 0 {
		width = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return helpMarkdown
	}

	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}

	return out
}
