package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// NavTab is one entry of the navigation bar.
type NavTab struct {
	Path  string
	Label string
}

// NavBar is the bottom navigation bar. Tabs are selected with 1..n.
type NavBar struct {
	*tview.TextView
	theme *Theme
	tabs  []NavTab
}

// NewNavBar creates a navigation bar for tabs.
func NewNavBar(theme *Theme, tabs []NavTab) *NavBar {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	tv.SetBackgroundColor(theme.BgColor)

	return &NavBar{
		TextView: tv,
		theme:    theme,
		tabs:     tabs,
	}
}

// Tab returns the tab bound to the 1-based shortcut n.
func (nb *NavBar) Tab(n int) (NavTab, bool) {
	if n < 1 || n > len(nb.tabs) {
		return NavTab{}, false
	}
	return nb.tabs[n-1], true
}

// Update highlights the tab whose path is active. SOS is always drawn in the alert color.
func (nb *NavBar) Update(active string) {
	nb.Clear()
	num := Tag(nb.theme.NumericKeyColor)
	for i, tab := range nb.tabs {
		color := Tag(nb.theme.FgColor)
		if tab.Path == "/sos" {
			color = Tag(nb.theme.AlertColor)
		}
		attr := ""
		if tab.Path == active {
			color, attr = Tag(nb.theme.CrumbActiveBg), "bu"
		}
		_, _ = fmt.Fprintf(nb, " [%s]%d[-] [%s::%s]%s[-:-:-] ", num, i+1, color, attr, tview.Escape(tab.Label))
	}
}
