package timeline

import (
	"strings"
	"time"

	"github.com/matheus3301/sentinel/internal/client"
)

// Layouts accepted for backend timestamps. Those without a zone are UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse reads a backend timestamp.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MessageTime returns when m was sent: timestamp, else created_date.
func MessageTime(m client.Message) (time.Time, bool) {
	if t, ok := Parse(m.Timestamp); ok {
		return t, true
	}
	return Parse(m.CreatedDate)
}

// Date is a calendar day in the display time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in loc.
func DateOf(t time.Time, loc *time.Location) Date {
	y, m, d := t.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero reports the bucket of messages without a usable time.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Group is the messages of one calendar day.
type Group struct {
	Date  Date
	Label string
	// Messages keep their arrival order.
	Messages []client.Message
}

// GroupByDate partitions msgs by calendar day in loc. Groups appear in order
// of their first message and concatenating them reproduces msgs. label
// renders a group heading; messages with no readable time share a group
// with a zero Date and an empty label.
func GroupByDate(msgs []client.Message, loc *time.Location, label func(time.Time) string) []Group {
	if loc == nil {
		loc = time.Local
	}
	var groups []Group
	index := make(map[Date]int)
	for _, m := range msgs {
		var d Date
		var heading string
		if t, ok := MessageTime(m); ok {
			d = DateOf(t, loc)
			heading = label(t.In(loc))
		}
		i, ok := index[d]
		if !ok {
			i = len(groups)
			index[d] = i
			groups = append(groups, Group{Date: d, Label: heading})
		}
		groups[i].Messages = append(groups[i].Messages, m)
	}
	return groups
}
