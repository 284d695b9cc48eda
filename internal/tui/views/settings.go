package views

import (
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/store"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// SettingsView toggles the locally stored app preferences.
type SettingsView struct {
	*tview.Form
	l             *i18n.Localizer
	notifications *tview.Checkbox
	darkMode      *tview.Checkbox
	loading       bool
	onChange      func(store.Preferences)
}

// NewSettingsView creates the settings page.
func NewSettingsView(theme *ui.Theme, l *i18n.Localizer) *SettingsView {
	sv := &SettingsView{
		Form: tview.NewForm(),
		l:    l,
	}
	changed := func(bool) {
		if !sv.loading && sv.onChange != nil {
			sv.onChange(sv.Preferences())
		}
	}
	sv.notifications = tview.NewCheckbox().SetLabel(l.T(i18n.Notifications)).SetChangedFunc(changed)
	sv.darkMode = tview.NewCheckbox().SetLabel(l.T(i18n.DarkMode)).SetChangedFunc(changed)
	sv.AddFormItem(sv.notifications)
	sv.AddFormItem(sv.darkMode)

	sv.SetBorder(true)
	sv.SetTitle(" " + l.T(i18n.SettingsTitle) + " ")
	sv.SetTitleColor(theme.TitleColor)
	sv.SetBorderColor(theme.BorderColor)
	sv.SetBackgroundColor(theme.BgColor)
	sv.SetFieldBackgroundColor(theme.BgColor)
	sv.SetFieldTextColor(theme.FgColor)
	sv.SetLabelColor(theme.MenuKeyColor)
	return sv
}

// Name implements Component.
func (sv *SettingsView) Name() string { return sv.l.T(i18n.SettingsTitle) }

// Hints implements Component.
func (sv *SettingsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Space", Description: "Toggle"},
		{Key: "Tab", Description: "Next"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnChange sets the callback fired when a toggle flips.
func (sv *SettingsView) SetOnChange(fn func(store.Preferences)) {
	sv.onChange = fn
}

// Load shows p without firing the change callback.
func (sv *SettingsView) Load(p store.Preferences) {
	sv.loading = true
	sv.notifications.SetChecked(p.Notifications)
	sv.darkMode.SetChecked(p.DarkMode)
	sv.loading = false
}

// Preferences returns the toggles as shown.
func (sv *SettingsView) Preferences() store.Preferences {
	return store.Preferences{
		Notifications: sv.notifications.IsChecked(),
		DarkMode:      sv.darkMode.IsChecked(),
	}
}
