package appointments

import "strings"

// minPhoneSuffix is the fewest significant digits a suffix match may rely on.
const minPhoneSuffix = 7

// NormalizePhone strips everything but digits so "+994 55 123-45-67" and
// "0551234567" can be compared.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhoneMatches reports whether a stored number matches a queried one.
// Punctuation is ignored and country-code variation is tolerated by
// comparing significant-digit suffixes: "+994551234567" matches the locally
// formatted "0551234567" because both end in the same subscriber number.
func PhoneMatches(stored, query string) bool {
	s := NormalizePhone(stored)
	q := NormalizePhone(query)
	if s == "" || q == "" {
		return false
	}
	if s == q {
		return true
	}
	// Drop national trunk zeros so "0551234567" and "994551234567" reduce to
	// a comparable subscriber suffix.
	a := strings.TrimLeft(s, "0")
	b := strings.TrimLeft(q, "0")
	short := a
	if len(b) < len(a) {
		short = b
	}
	if len(short) < minPhoneSuffix {
		return false
	}
	return strings.HasSuffix(a, b) || strings.HasSuffix(b, a)
}
