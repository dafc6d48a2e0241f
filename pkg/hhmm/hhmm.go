package hhmm

import (
	"fmt"
	"math"
	"strings"
)

// Time is a wall-clock time of day with minute precision.
type Time struct {
	Hours   int
	Minutes int
}

// String formats the time back to zero-padded "HH:MM".
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hours, t.Minutes)
}

// DecimalHours converts the time of day to decimal hours since midnight.
func (t Time) DecimalHours() float64 {
	return float64(t.Hours) + float64(t.Minutes)/60.0
}

// Parse accepts strictly formed "HH:MM" (00:00 .. 23:59). It never panics;
// anything else returns an error.
func Parse(s string) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return Time{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}

	h, m := 0, 0
	for _, c := range parts[0] {
		if c < '0' || c > '9' {
			return Time{}, fmt.Errorf("invalid time %q: non-digit hour", s)
		}
		h = h*10 + int(c-'0')
	}
	for _, c := range parts[1] {
		if c < '0' || c > '9' {
			return Time{}, fmt.Errorf("invalid time %q: non-digit minute", s)
		}
		m = m*10 + int(c-'0')
	}

	if h > 23 {
		return Time{}, fmt.Errorf("invalid time %q: hour out of range", s)
	}
	if m > 59 {
		return Time{}, fmt.Errorf("invalid time %q: minute out of range", s)
	}

	return Time{Hours: h, Minutes: m}, nil
}

// Finalize normalizes blur-style raw input into "HH:MM". Digits-only input of
// length 4 is read as HHMM. Length 3 pads a trailing zero ("093" -> "09:30")
// and, when that reading is out of range, a leading zero ("930" -> "09:30").
// Already well-formed "HH:MM" passes through. Anything else (including 1-2
// digit fragments) yields the caller-supplied fallback.
func Finalize(raw, fallback string) string {
	raw = strings.TrimSpace(raw)

	if t, err := Parse(raw); err == nil {
		return t.String()
	}

	digits := make([]rune, 0, len(raw))
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			digits = append(digits, c)
		} else if c != ':' {
			return fallback
		}
	}

	switch len(digits) {
	case 4:
		if t, ok := asHHMM(digits); ok {
			return t.String()
		}
	case 3:
		// "09:3" blurred mid-edit reads best with a trailing zero; "930"
		// only makes sense with a leading one. Try in that order.
		if t, ok := asHHMM(append(digits[:3:3], '0')); ok {
			return t.String()
		}
		if t, ok := asHHMM(append([]rune{'0'}, digits...)); ok {
			return t.String()
		}
	}
	return fallback
}

func asHHMM(digits []rune) (Time, bool) {
	candidate := fmt.Sprintf("%c%c:%c%c", digits[0], digits[1], digits[2], digits[3])
	t, err := Parse(candidate)
	return t, err == nil
}

// Diff returns the decimal hours elapsed from start to end, wrapping past
// midnight when end is earlier than start (the shift ran into the next day).
// The result is always >= 0.
func Diff(start, end Time) float64 {
	d := end.DecimalHours() - start.DecimalHours()
	if d < 0 {
		d += 24
	}
	return d
}

// DiffStrings parses both operands and diffs them. Unparseable input yields
// NaN so callers can suppress the derived display instead of showing garbage.
func DiffStrings(start, end string) float64 {
	s, err := Parse(start)
	if err != nil {
		return math.NaN()
	}
	e, err := Parse(end)
	if err != nil {
		return math.NaN()
	}
	return Diff(s, e)
}
