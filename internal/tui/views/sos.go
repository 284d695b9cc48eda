package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// SOSView raises emergency alerts and lists earlier ones.
type SOSView struct {
	*tview.Flex
	theme    *ui.Theme
	l        *i18n.Localizer
	loc      *time.Location
	form     *tview.Form
	location *tview.InputField
	history  *tview.TextView
	onSend   func(location string)
}

// NewSOSView creates the SOS screen.
func NewSOSView(theme *ui.Theme, l *i18n.Localizer, loc *time.Location) *SOSView {
	sv := &SOSView{
		Flex:  tview.NewFlex().SetDirection(tview.FlexRow),
		theme: theme,
		l:     l,
		loc:   loc,
		form:  tview.NewForm(),
	}

	sv.location = tview.NewInputField().SetLabel(l.T(i18n.SOSLocation)).SetFieldWidth(40)
	sv.form.AddFormItem(sv.location)
	sv.form.AddButton(l.T(i18n.SOSSend), func() {
		if sv.onSend != nil {
			sv.onSend(sv.location.GetText())
		}
	})
	sv.form.SetBorder(true)
	sv.form.SetTitle(fmt.Sprintf(" %s · %s ", l.T(i18n.SOSTitle), l.T(i18n.SOSSubtitle)))
	sv.form.SetTitleColor(theme.AlertColor)
	sv.form.SetBorderColor(theme.AlertColor)
	sv.form.SetBackgroundColor(theme.BgColor)
	sv.form.SetFieldBackgroundColor(theme.BgColor)
	sv.form.SetFieldTextColor(theme.FgColor)
	sv.form.SetLabelColor(theme.MenuKeyColor)
	sv.form.SetButtonBackgroundColor(theme.AlertColor)

	sv.history = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	sv.history.SetBorder(true)
	sv.history.SetBorderColor(theme.BorderColor)
	sv.history.SetBackgroundColor(theme.BgColor)
	sv.history.SetTextColor(theme.FgColor)
	sv.history.SetTitle(" " + l.T(i18n.SOSHistory) + " ")
	sv.history.SetTitleColor(theme.TitleColor)

	sv.AddItem(sv.form, 7, 0, true)
	sv.AddItem(sv.history, 0, 1, false)
	sv.Update(nil)
	return sv
}

// Name implements Component.
func (sv *SOSView) Name() string { return sv.l.T(i18n.SOSTitle) }

// Hints implements Component.
func (sv *SOSView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: sv.l.T(i18n.SOSSend)},
		{Key: "Tab", Description: "Next field"},
	}
}

// SetOnSend sets the callback for the send button.
func (sv *SOSView) SetOnSend(fn func(location string)) {
	sv.onSend = fn
}

// ClearLocation empties the location field after a successful send.
func (sv *SOSView) ClearLocation() {
	sv.location.SetText("")
}

// Update renders the alert history.
func (sv *SOSView) Update(alerts []client.SOSAlert) {
	sv.history.Clear()
	_, _ = fmt.Fprint(sv.history, renderAlerts(alerts, sv.theme, sv.l, sv.loc))
}

func renderAlerts(alerts []client.SOSAlert, theme *ui.Theme, l *i18n.Localizer, loc *time.Location) string {
	var b strings.Builder
	for _, a := range alerts {
		location := a.Location
		if location == "" {
			location = "-"
		}
		fmt.Fprintf(&b, " [%s::b]%s[-:-:-]  %s  [::d]%s[-:-:-]\n",
			ui.Tag(theme.AlertColor), clean(l.SOSStatus(a.Status)), clean(location), clockOf(a.CreatedDate, loc, l))
	}
	return b.String()
}
