package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/sentinel/internal/client"
	"github.com/matheus3301/sentinel/internal/i18n"
	"github.com/matheus3301/sentinel/internal/timeline"
	"golang.org/x/text/cases"
)

// matchFold reports whether s contains q ignoring case, for any script.
func matchFold(s, q string) bool {
	if q == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(q))
}

// orderSummary renders order items as "0.5л x2, Kent x1".
func orderSummary(items []client.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.ProductName, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

// clockOf renders a backend timestamp as a local clock time, or "" when
// it cannot be read.
func clockOf(ts string, loc *time.Location, l *i18n.Localizer) string {
	t, ok := timeline.Parse(ts)
	if !ok {
		return ""
	}
	return l.Clock(t.In(loc))
}

// formatDuration renders task durations in seconds as "1h05m" or "3m20s".
func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
