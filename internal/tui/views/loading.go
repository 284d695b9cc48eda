package views

import (
	"fmt"

	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/tui/ui"
	"github.com/rivo/tview"
)

// LoadingView is shown while the session is being restored.
type LoadingView struct {
	*tview.TextView
	l *i18n.Localizer
}

// NewLoadingView creates the loading screen.
func NewLoadingView(theme *ui.Theme, l *i18n.Localizer) *LoadingView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	_, _ = fmt.Fprintf(tv, "\n\n\n[::b]%s[-:-:-]", tview.Escape(l.T(i18n.Loading)))
	return &LoadingView{TextView: tv, l: l}
}

// Name implements Component.
func (lv *LoadingView) Name() string { return lv.l.T(i18n.Loading) }

// Hints implements Component.
func (lv *LoadingView) Hints() []ui.MenuHint { return nil }
