package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInterval = errors.New("interval end must be after start")
	ErrMissingOwner    = errors.New("owner id is required")
)

// ConflictStore is the read side of the appointment store the engine checks
// against. CountOverlapping returns how many appointments for the owner, in
// one of the given statuses, overlap [start, end) under half-open semantics.
// The appointment with id excludeID (if not uuid.Nil) is left out of the count.
type ConflictStore interface {
	CountOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID, statuses []string) (int, error)
}

// Engine answers whether a time slot can be placed (or moved) on a master's
// calendar. It is stateless per call and performs no writes; callers commit
// the appointment only after the engine reports availability.
type Engine struct {
	store     ConflictStore
	occupying []string
}

// NewEngine builds an engine that treats appointments in the given statuses
// as occupying their slot. A canceled appointment frees its slot only if
// "canceled" is absent from occupying.
func NewEngine(store ConflictStore, occupying []string) *Engine {
	return &Engine{
		store:     store,
		occupying: occupying,
	}
}

// IsSlotAvailable reports whether [start, end) is free on ownerID's calendar.
// Pass excludeID when re-checking an appointment that is being rescheduled so
// it does not conflict with itself; uuid.Nil means no exclusion.
//
// A storage failure is returned as an error, never folded into the boolean:
// (false, err) must be read as "unknown", not "taken".
func (e *Engine) IsSlotAvailable(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	if ownerID == uuid.Nil {
		return false, ErrMissingOwner
	}
	if !end.After(start) {
		return false, ErrInvalidInterval
	}

	n, err := e.store.CountOverlapping(ctx, ownerID, start, end, excludeID, e.occupying)
	if err != nil {
		return false, fmt.Errorf("count overlapping appointments: %w", err)
	}

	return n == 0, nil
}

// Overlaps reports whether [s1, e1) and [s2, e2) share any instant.
// Half-open on the right: an interval ending at T does not overlap one
// starting at T, so back-to-back bookings are allowed.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
