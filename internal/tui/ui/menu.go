package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// Menu displays keyboard shortcut hints in a vertical list.
type Menu struct {
	*tview.TextView
	theme *Theme
}

// NewMenu creates a new menu hint bar.
func NewMenu(theme *Theme) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	return &Menu{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders menu hints one per line. Duplicate keys keep the first hint.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()

	keyColor := Tag(m.theme.MenuKeyColor)
	numColor := Tag(m.theme.NumericKeyColor)

	seen := make(map[string]bool, len(hints))
	for _, h := range hints {
		if seen[h.Key] {
			continue
		}
		seen[h.Key] = true
		kc := keyColor
		if h.Numeric {
			kc = numColor
		}
		_, _ = fmt.Fprintf(m, "[%s::b]<%s>[-:-:-] %s\n", kc, tview.Escape(h.Key), tview.Escape(h.Description))
	}
}
