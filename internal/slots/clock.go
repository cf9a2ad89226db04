package slots

import (
	"strings"
	"time"
)

// clockLayouts are the accepted time representations, tried in order.
// Upstream rows have arrived as "09:00", "09:00:00" and occasionally a
// 12-hour string, depending on which backend variant produced them.
var clockLayouts = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04:05 PM",
	time.Kitchen,
}

// NormalizeClock canonicalizes a slot time to "HH:MM". Equivalent times in
// any accepted format normalize to the same string. Unparseable input is
// returned as-is with ok=false so callers can still display it.
func NormalizeClock(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return raw, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, strings.ToUpper(s)); err == nil {
			return t.Format(ClockLayout), true
		}
	}
	return raw, false
}

// SlotStart combines a date and a canonical clock string into a point in time.
func SlotStart(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout+" "+ClockLayout, date+" "+clock, loc)
}

// ValidDate reports whether date is a well-formed calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
