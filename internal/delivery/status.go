// Package delivery derives the tri-state delivery status of an order from
// whatever signals are available: an explicitly pinned status, quantity
// counters, or a plain delivered flag.
package delivery

import "fmt"

// Status is the single tagged delivery state. It replaces the independent
// boolean flags of older schemas: a row is exactly one of these at a time.
type Status string

const (
	StatusNotDelivered Status = "not_delivered"
	StatusPartial      Status = "partial"
	StatusDelivered    Status = "delivered"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusNotDelivered, StatusPartial, StatusDelivered:
		return true
	}
	return false
}

// ParseStatus validates a raw string into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown delivery status %q", raw)
	}
	return s, nil
}

// FromCounters derives the status from quantity counters alone:
// deliveredQty <= 0 is not_delivered, anything short of totalQty is partial,
// and deliveredQty >= totalQty is delivered.
func FromCounters(deliveredQty, totalQty int) Status {
	switch {
	case deliveredQty <= 0:
		return StatusNotDelivered
	case deliveredQty < totalQty:
		return StatusPartial
	default:
		return StatusDelivered
	}
}

// Resolve applies the precedence chain: an explicit status (if present and
// valid) wins, then the quantity counters when a total is known, then the
// boolean flag. Pure recomputation from current inputs; it does not enforce
// monotonic progress.
func Resolve(explicit *string, deliveredQty, totalQty int, deliveredBool bool) Status {
	if explicit != nil {
		if s, err := ParseStatus(*explicit); err == nil {
			return s
		}
	}

	if totalQty > 0 {
		return FromCounters(deliveredQty, totalQty)
	}

	if deliveredBool {
		return StatusDelivered
	}
	return StatusNotDelivered
}
