package ui

import "github.com/rivo/tview"

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // true for 1-5 navigation shortcuts (displayed in a different color)
}

// Component is a routed page of the TUI.
type Component interface {
	tview.Primitive
	// Name is the title shown in the breadcrumb trail.
	Name() string
	Hints() []MenuHint
}
