package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Theme holds color constants for the TUI.
type Theme struct {
	Dark              bool
	BgColor           tcell.Color
	FgColor           tcell.Color
	MutedColor        tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	OnlineColor       tcell.Color
	UnreadColor       tcell.Color
	OutgoingColor     tcell.Color
	DateColor         tcell.Color
	AlertColor        tcell.Color
}

// DefaultTheme returns the dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Dark:              true,
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		MutedColor:        tcell.ColorGray,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorFuchsia,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
		OnlineColor:       tcell.ColorLimeGreen,
		UnreadColor:       tcell.ColorDodgerBlue,
		OutgoingColor:     tcell.ColorLightSkyBlue,
		DateColor:         tcell.ColorGray,
		AlertColor:        tcell.ColorRed,
	}
}

// LightTheme returns the theme used when dark mode is switched off.
func LightTheme() *Theme {
	t := DefaultTheme()
	t.Dark = false
	t.BgColor = tcell.ColorWhite
	t.FgColor = tcell.ColorDarkSlateGray
	t.TableHeaderFg = tcell.ColorBlack
	t.TableHeaderBg = tcell.ColorWhite
	t.TableCursorFg = tcell.ColorWhite
	t.TableCursorBg = tcell.ColorRoyalBlue
	t.TitleColor = tcell.ColorDarkMagenta
	t.CounterColor = tcell.ColorDarkBlue
	t.FlashInfoColor = tcell.ColorDarkGreen
	t.OutgoingColor = tcell.ColorRoyalBlue
	return t
}

// ThemeFor picks the theme matching the dark mode preference.
func ThemeFor(dark bool) *Theme {
	if dark {
		return DefaultTheme()
	}
	return LightTheme()
}

// Tag returns a tview-compatible color name string for style tags.
func Tag(c tcell.Color) string {
	for name, val := range tcell.ColorNames {
		if val == c {
			return name
		}
	}
	return fmt.Sprintf("#%06x", c.Hex())
}
