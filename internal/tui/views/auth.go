package views

import (
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// AuthForm is the sign-in or sign-up form. Sign-up also asks for a full name.
type AuthForm struct {
	*tview.Form
	theme    *ui.Theme
	l        *i18n.Localizer
	register bool

	email    *tview.InputField
	password *tview.InputField
	fullName *tview.InputField

	onSubmit func(email, password, fullName string)
	onSwitch func()
}

// NewLoginView creates the sign-in form.
func NewLoginView(theme *ui.Theme, l *i18n.Localizer) *AuthForm {
	return newAuthForm(theme, l, false)
}

// NewRegisterView creates the sign-up form.
func NewRegisterView(theme *ui.Theme, l *i18n.Localizer) *AuthForm {
	return newAuthForm(theme, l, true)
}

func newAuthForm(theme *ui.Theme, l *i18n.Localizer, register bool) *AuthForm {
	f := &AuthForm{
		Form:     tview.NewForm(),
		theme:    theme,
		l:        l,
		register: register,
	}
	f.SetBorder(true)
	f.SetBorderColor(theme.BorderColor)
	f.SetBackgroundColor(theme.BgColor)
	f.SetTitleColor(theme.TitleColor)
	f.SetFieldBackgroundColor(theme.BgColor)
	f.SetFieldTextColor(theme.FgColor)
	f.SetLabelColor(theme.MenuKeyColor)
	f.SetButtonBackgroundColor(theme.TableCursorBg)
	f.SetButtonTextColor(theme.TableCursorFg)

	title, action, other := i18n.LoginTitle, i18n.ActionLogin, i18n.ActionToRegister
	if register {
		title, action, other = i18n.RegisterTitle, i18n.ActionRegister, i18n.ActionToLogin
	}
	f.SetTitle(" " + l.T(title) + " ")

	if register {
		f.fullName = tview.NewInputField().SetLabel(l.T(i18n.FieldFullName)).SetFieldWidth(32)
		f.fullName.SetPlaceholder(l.T(i18n.ProfileNameHint))
		f.AddFormItem(f.fullName)
	}
	f.email = tview.NewInputField().SetLabel(l.T(i18n.FieldEmail)).SetFieldWidth(32)
	f.password = tview.NewInputField().SetLabel(l.T(i18n.FieldPassword)).SetFieldWidth(32).SetMaskCharacter('*')
	f.AddFormItem(f.email)
	f.AddFormItem(f.password)

	f.AddButton(l.T(action), f.submit)
	f.AddButton(l.T(other), func() {
		if f.onSwitch != nil {
			f.onSwitch()
		}
	})
	return f
}

func (f *AuthForm) submit() {
	if f.onSubmit == nil {
		return
	}
	name := ""
	if f.fullName != nil {
		name = f.fullName.GetText()
	}
	f.onSubmit(f.email.GetText(), f.password.GetText(), name)
}

// Name implements Component.
func (f *AuthForm) Name() string {
	if f.register {
		return f.l.T(i18n.RegisterTitle)
	}
	return f.l.T(i18n.LoginTitle)
}

// Hints implements Component.
func (f *AuthForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Press button"},
		{Key: "Ctrl-C", Description: "Quit"},
	}
}

// SetOnSubmit sets the callback for the primary button.
func (f *AuthForm) SetOnSubmit(fn func(email, password, fullName string)) {
	f.onSubmit = fn
}

// SetOnSwitch sets the callback for the sign-in/sign-up toggle button.
func (f *AuthForm) SetOnSwitch(fn func()) {
	f.onSwitch = fn
}

// SetBusy relabels the primary button while a request is in flight.
func (f *AuthForm) SetBusy(busy bool) {
	label := i18n.ActionLogin
	if f.register {
		label = i18n.ActionRegister
	}
	if busy {
		label = i18n.Loading
	}
	f.GetButton(0).SetLabel(f.l.T(label))
}

// Reset clears the password and focuses the first field.
func (f *AuthForm) Reset() {
	f.password.SetText("")
	f.SetFocus(0)
}
