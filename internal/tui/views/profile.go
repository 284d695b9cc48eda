package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// ProfileView shows the signed-in account and its user code.
type ProfileView struct {
	*tview.TextView
	theme *ui.Theme
	l     *i18n.Localizer
}

// NewProfileView creates the profile screen.
func NewProfileView(theme *ui.Theme, l *i18n.Localizer) *ProfileView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(fmt.Sprintf(" %s · %s ", l.T(i18n.ProfileTitle), l.T(i18n.ProfileSubtitle)))
	tv.SetTitleColor(theme.TitleColor)

	return &ProfileView{TextView: tv, theme: theme, l: l}
}

// Name implements Component.
func (pv *ProfileView) Name() string { return pv.l.T(i18n.ProfileTitle) }

// Hints implements Component.
func (pv *ProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "e", Description: pv.l.T(i18n.ProfileEdit)},
		{Key: "s", Description: pv.l.T(i18n.SecurityTitle)},
		{Key: "g", Description: pv.l.T(i18n.SettingsTitle)},
		{Key: "L", Description: pv.l.T(i18n.ActionLogout)},
	}
}

// Update renders the user. A nil user renders the name fallback only.
func (pv *ProfileView) Update(u *client.User) {
	pv.Clear()
	_, _ = fmt.Fprint(pv, renderProfile(u, pv.theme, pv.l))
	pv.ScrollToBeginning()
}

func renderProfile(u *client.User, theme *ui.Theme, l *i18n.Localizer) string {
	if u == nil {
		u = &client.User{}
	}
	name := u.FullName
	if strings.TrimSpace(name) == "" {
		name = l.T(i18n.ProfileNameHint)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  [%s:%s:b] %s [-:-:-]  [::b]%s[-:-:-]\n",
		ui.Tag(theme.TableCursorFg), ui.Tag(theme.TableCursorBg),
		clean(i18n.Initials(u.FullName, i18n.UserInitials)), clean(name))
	if u.Email != "" {
		fmt.Fprintf(&b, "        [%s]%s[-]\n", ui.Tag(theme.MutedColor), clean(u.Email))
	}
	if u.AvatarURL != "" {
		fmt.Fprintf(&b, "        [::d]%s[-:-:-]\n", clean(u.AvatarURL))
	}
	if u.UserCode != "" {
		fmt.Fprintf(&b, "\n  %s: [%s::b]%s[-:-:-]\n\n", clean(l.T(i18n.ProfileCode)), ui.Tag(theme.CounterColor), clean(u.UserCode))
		if qr, err := renderQR(u.UserCode); err == nil {
			b.WriteString(qr)
		}
	}
	return b.String()
}
