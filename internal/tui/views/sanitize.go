package views

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/tview"
)

// clean prepares backend text for a tview cell or dynamic-color text view:
// it drops codepoints tcell renders badly and escapes style tags.
func clean(s string) string {
	return tview.Escape(sanitizeForTerminal(s))
}

// oneLine is clean for single-line cells; newlines and tabs become spaces.
func oneLine(s string) string {
	return clean(strings.Join(strings.Fields(s), " "))
}

// sanitizeForTerminal removes codepoints that break tcell cell widths:
// skin tone modifiers, zero width joiners, variation selectors and
// control characters other than newline.
func sanitizeForTerminal(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if !isProblematicRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isProblematicRune(r rune) bool {
	switch {
	case r == '\n' || r == '\t':
		return false
	case unicode.IsControl(r):
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	default:
		return false
	}
}
