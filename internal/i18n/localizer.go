package i18n

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultTag is used when a locale is empty or unsupported.
var DefaultTag = language.Russian

var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

var cat = newCatalog()

// ParseTag matches a locale such as "ru-RU" or "en_US" against the
// supported languages.
func ParseTag(locale string) language.Tag {
	locale = strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
	if locale == "" {
		return DefaultTag
	}
	t, err := language.Parse(locale)
	if err != nil {
		return DefaultTag
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return DefaultTag
	}
	return supported[idx]
}

// Localizer renders user-visible strings for one language.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a localizer for locale.
func New(locale string) *Localizer {
	tag := ParseTag(locale)
	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(cat)),
	}
}

// Tag returns the matched language.
func (l *Localizer) Tag() language.Tag {
	return l.tag
}

func (l *Localizer) russian() bool {
	return l.tag == language.Russian
}

// T looks key up in the catalog and formats args into it.
func (l *Localizer) T(key string, args ...any) string {
	return l.printer.Sprintf(key, args...)
}

// ItemCount renders n with the plural form of "item", e.g. "5 товаров".
func (l *Localizer) ItemCount(n int) string {
	return l.printer.Sprintf(ItemsCount, n)
}

var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// DayMonth renders a date bucket label: "5 марта" or "March 5".
func (l *Localizer) DayMonth(t time.Time) string {
	if l.russian() {
		return fmt.Sprintf("%d %s", t.Day(), ruMonths[t.Month()-1])
	}
	return t.Format("January 2")
}

// Clock renders a two-digit hour and minute: "09:05" or "09:05 AM".
func (l *Localizer) Clock(t time.Time) string {
	if l.russian() {
		return t.Format("15:04")
	}
	return t.Format("03:04 PM")
}

// OrderStatus labels an order status. Anything not processing or ready reads as completed.
func (l *Localizer) OrderStatus(status string) string {
	switch status {
	case "processing", "ready":
		return l.T("order." + status)
	default:
		return l.T("order.completed")
	}
}

// TaskStatus labels a task status. Unknown statuses are shown verbatim.
func (l *Localizer) TaskStatus(status string) string {
	switch status {
	case "pending", "in_progress", "completed":
		return l.T("task." + status)
	default:
		return status
	}
}

// SOSStatus labels an SOS alert status. Unknown statuses are shown verbatim.
func (l *Localizer) SOSStatus(status string) string {
	switch status {
	case "sent", "acknowledged", "resolved":
		return l.T("sos." + status)
	default:
		return status
	}
}

// Avatar fallbacks.
const (
	ContactInitials = "НА"
	UserInitials    = "ИИ"
)

// Initials returns the first two characters of name upper-cased, or fallback
// when name is blank.
func Initials(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	end := 0
	for i := 0; i < 2 && end < len(name); i++ {
		_, size := utf8.DecodeRuneInString(name[end:])
		end += size
	}
	return strings.ToUpper(name[:end])
}
