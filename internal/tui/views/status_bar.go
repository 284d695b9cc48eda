package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the session, auth state, outgoing queue and clock.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	loc     *time.Location
	session string
	state   string
	pending int
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme, loc *time.Location) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &StatusBar{TextView: tv, theme: theme, loc: loc}
}

// SetSession updates the session name display.
func (sb *StatusBar) SetSession(name string) {
	sb.session = name
	sb.render()
}

// SetState updates the auth state display.
func (sb *StatusBar) SetState(state string) {
	sb.state = state
	sb.render()
}

// SetPending updates the number of messages waiting to be sent.
func (sb *StatusBar) SetPending(n int) {
	sb.pending = n
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	queue := ""
	if sb.pending > 0 {
		queue = fmt.Sprintf(" | [%s]↑%d[-]", ui.Tag(sb.theme.FlashWarnColor), sb.pending)
	}
	clock := time.Now().In(sb.loc).Format("15:04")

	_, _ = fmt.Fprintf(sb, " [::b]%s[-:-:-] | %s%s | %s",
		tview.Escape(sb.session), tview.Escape(sb.state), queue, clock)
}
