package views

import (
	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// EditProfileView edits the full name and avatar of the signed-in user.
type EditProfileView struct {
	*tview.Form
	l      *i18n.Localizer
	name   *tview.InputField
	avatar *tview.InputField
	onSave func(fullName, avatarPath string)
}

// NewEditProfileView creates the profile editor.
func NewEditProfileView(theme *ui.Theme, l *i18n.Localizer) *EditProfileView {
	ev := &EditProfileView{
		Form: tview.NewForm(),
		l:    l,
	}
	ev.name = tview.NewInputField().SetLabel(l.T(i18n.FieldFullName)).SetFieldWidth(40)
	ev.name.SetPlaceholder(l.T(i18n.ProfileNameHint))
	ev.avatar = tview.NewInputField().SetLabel(l.T(i18n.ProfileAvatar)).SetFieldWidth(40)
	ev.AddFormItem(ev.name)
	ev.AddFormItem(ev.avatar)
	ev.AddButton(l.T(i18n.ActionSave), func() {
		if ev.onSave != nil {
			ev.onSave(ev.name.GetText(), ev.avatar.GetText())
		}
	})

	ev.SetBorder(true)
	ev.SetTitle(" " + l.T(i18n.ProfileEdit) + " ")
	ev.SetTitleColor(theme.TitleColor)
	ev.SetBorderColor(theme.BorderColor)
	ev.SetBackgroundColor(theme.BgColor)
	ev.SetFieldBackgroundColor(theme.BgColor)
	ev.SetFieldTextColor(theme.FgColor)
	ev.SetLabelColor(theme.MenuKeyColor)
	ev.SetButtonBackgroundColor(theme.TableCursorBg)
	ev.SetButtonTextColor(theme.TableCursorFg)
	return ev
}

// Name implements Component.
func (ev *EditProfileView) Name() string { return ev.l.T(i18n.ProfileEdit) }

// Hints implements Component.
func (ev *EditProfileView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSave sets the callback for the save button.
func (ev *EditProfileView) SetOnSave(fn func(fullName, avatarPath string)) {
	ev.onSave = fn
}

// Load fills the form from the current user.
func (ev *EditProfileView) Load(u *client.User) {
	ev.avatar.SetText("")
	if u != nil {
		ev.name.SetText(u.FullName)
	}
	ev.SetFocus(0)
}

// SetSaving relabels the save button while the update is in flight.
func (ev *EditProfileView) SetSaving(saving bool) {
	label := i18n.ActionSave
	if saving {
		label = i18n.ActionSaving
	}
	ev.GetButton(0).SetLabel(ev.l.T(label))
}
