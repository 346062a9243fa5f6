package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrInvalidWindow is returned when a booking window violates temporal constraints
	ErrInvalidWindow = errors.New("domain: invalid booking window")

	// ErrUnknownState is returned for an unrecognised filter state
	ErrUnknownState = errors.New("domain: unknown state")
)

// BookingStatus is the persisted status of a booking
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// IsValid reports whether s is a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// TemporalPhase is computed from the booking window at read time and never persisted
type TemporalPhase string

const (
	PhasePast    TemporalPhase = "PAST"
	PhaseCurrent TemporalPhase = "CURRENT"
	PhaseFuture  TemporalPhase = "FUTURE"
)

// BookingState is the filter state used for listing bookings
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState parses a filter state case-insensitively.
// An empty string means ALL.
func ParseBookingState(s string) (BookingState, error) {
	if strings.TrimSpace(s) == "" {
		return StateAll, nil
	}

	state := BookingState(strings.ToUpper(strings.TrimSpace(s)))
	switch state {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return state, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownState, s)
}

// Booking is a request by a booker to use an item for a time window
type Booking struct {
	ID        int64
	ItemID    int64
	BookerID  int64
	Start     time.Time
	End       time.Time
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Phase returns the temporal phase of the booking relative to now
func (b *Booking) Phase(now time.Time) TemporalPhase {
	switch {
	case now.Before(b.Start):
		return PhaseFuture
	case now.After(b.End):
		return PhasePast
	default:
		return PhaseCurrent
	}
}

// State returns the filter state of the booking.
// WAITING and REJECTED come from the status, everything else from the phase.
func (b *Booking) State(now time.Time) BookingState {
	switch b.Status {
	case StatusWaiting:
		return StateWaiting
	case StatusRejected:
		return StateRejected
	}
	return BookingState(b.Phase(now))
}

// Matches reports whether the booking passes the given filter
func (b *Booking) Matches(state BookingState, now time.Time) bool {
	if state == StateAll {
		return true
	}
	return b.State(now) == state
}

// Blocks reports whether the booking prevents other bookings of [start, end)
func (b *Booking) Blocks(start, end time.Time) bool {
	return b.Status == StatusApproved && Overlaps(b.Start, b.End, start, end)
}

// Overlaps reports whether half-open intervals [a1, a2) and [b1, b2) intersect
func Overlaps(a1, a2, b1, b2 time.Time) bool {
	return a1.Before(b2) && b1.Before(a2)
}

// FindConflict returns the first approved booking overlapping [start, end).
// The booking with excludeID is skipped; pass 0 to check all.
func FindConflict(bookings []*Booking, start, end time.Time, excludeID int64) *Booking {
	for _, b := range bookings {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if b.Blocks(start, end) {
			return b
		}
	}
	return nil
}

// ValidateWindow checks start < end, start not in the past and end strictly in the future
func ValidateWindow(start, end, now time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidWindow)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidWindow)
	}
	if start.Before(now) {
		return fmt.Errorf("%w: start is in the past", ErrInvalidWindow)
	}
	if !end.After(now) {
		return fmt.Errorf("%w: end is not in the future", ErrInvalidWindow)
	}
	return nil
}

// FilterByState keeps bookings matching state, preserving order
func FilterByState(bookings []*Booking, state BookingState, now time.Time) []*Booking {
	result := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.Matches(state, now) {
			result = append(result, b)
		}
	}
	return result
}
