package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
	l     *i18n.Localizer
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme, l *i18n.Localizer) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" " + l.T(i18n.HelpTitle) + " ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
		l:        l,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return hv.l.T(i18n.HelpTitle) }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

type helpSection struct {
	title string
	keys  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{"1-5", "Chats, tasks, orders, profile, SOS"},
		{":", "Command mode"},
		{"r", "Reload this screen"},
		{"?", "Help"},
		{"Esc", "Back"},
		{"q", "Quit"},
		{"Ctrl-C", "Quit immediately"},
	}},
	{"Chats", [][2]string{
		{"Enter", "Open chat"},
		{"/", "Filter by contact name"},
		{"f", "Find a user by code and start a chat"},
	}},
	{"Chat room", [][2]string{
		{"i", "Focus composer, Enter sends"},
		{"a", "Attach an image file to the next message"},
		{"x", "Drop the attachment"},
	}},
	{"Tasks", [][2]string{
		{"n", "New task"},
		{"s", "Start selected task"},
		{"c", "Complete selected task"},
	}},
	{"Orders", [][2]string{
		{"+ / -", "Change quantity"},
		{"Enter", "Submit order"},
	}},
	{"Profile", [][2]string{
		{"e", "Edit profile"},
		{"s", "Security"},
		{"g", "Settings"},
		{"L", "Sign out"},
	}},
	{"Commands", [][2]string{
		{":chats :tasks :orders :sos :profile", "Open a screen"},
		{":edit :security :settings", "Open a profile page"},
		{":find CODE", "Start a chat with a user"},
		{":attach PATH", "Attach an image in the chat room"},
		{":go PATH", "Open a route, e.g. /chat?chatId=1"},
		{":logout", "Sign out"},
		{":help :quit", "Help, quit"},
	}},
}

func (hv *HelpView) render() {
	kc := ui.Tag(hv.theme.MenuKeyColor)
	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, k := range s.keys {
			fmt.Fprintf(&b, "  [%s]%-38s[-:-:-] %s\n", kc, tview.Escape(k[0]), k[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
