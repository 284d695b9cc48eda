package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// SessionData holds session information for display.
type SessionData struct {
	Session  string
	Backend  string
	State    string
	User     string
	UserCode string
	Chats    int
	Unread   int
}

// SessionInfo displays session metadata in the header.
type SessionInfo struct {
	*tview.TextView
	theme *Theme
}

// NewSessionInfo creates a new session info panel.
func NewSessionInfo(theme *Theme) *SessionInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &SessionInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the session info.
func (si *SessionInfo) Update(data *SessionData) {
	si.Clear()
	if data == nil {
		return
	}

	label := Tag(si.theme.FgColor)
	value := Tag(si.theme.CounterColor)

	rows := []struct {
		name  string
		value string
	}{
		{"Session:", data.Session},
		{"Backend:", data.Backend},
		{"State:", data.State},
		{"User:", orDash(data.User)},
		{"Code:", orDash(data.UserCode)},
		{"Chats:", fmt.Sprintf("%d (%d unread)", data.Chats, data.Unread)},
	}
	for i, r := range rows {
		if i > 0 {
			_, _ = fmt.Fprint(si, "\n")
		}
		_, _ = fmt.Fprintf(si, "[%s::b]%-8s[-:-:-] [%s]%s[-]", label, r.name, value, tview.Escape(r.value))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
