package views

import (
	"fmt"

	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// SecurityView is the account security page. It carries no settings yet.
type SecurityView struct {
	*tview.TextView
	l *i18n.Localizer
}

// NewSecurityView creates the security page.
func NewSecurityView(theme *ui.Theme, l *i18n.Localizer) *SecurityView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" " + l.T(i18n.SecurityTitle) + " ")
	tv.SetTitleColor(theme.TitleColor)
	_, _ = fmt.Fprintf(tv, "\n\n[::b]%s[-:-:-]\n\n[%s]%s[-]",
		tview.Escape(l.T(i18n.SecurityWIP)), ui.Tag(theme.MutedColor), tview.Escape(l.T(i18n.SecurityBody)))

	return &SecurityView{TextView: tv, l: l}
}

// Name implements Component.
func (sv *SecurityView) Name() string { return sv.l.T(i18n.SecurityTitle) }

// Hints implements Component.
func (sv *SecurityView) Hints() []ui.MenuHint {
	return []ui.MenuHint{{Key: "Esc", Description: "Back"}}
}
