package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrSlotTaken is returned by Create/Update when the storage-level
	// no-overlap constraint rejects the write. It carries the same meaning
	// as a false answer from the scheduling engine.
	ErrSlotTaken = errors.New("time slot is already taken")
)

// Repository contains all DB interactions needed by the service.
// CountOverlapping doubles as the scheduling engine's ConflictStore.
type Repository interface {
	CountOverlapping(ctx context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID, statuses []string) (int, error)

	Create(ctx context.Context, appt *Appointment) (*Appointment, error)
	Update(ctx context.Context, appt *Appointment) (*Appointment, error)

	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*Appointment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Appointment, error)

	// ListUpcoming returns appointments in the given statuses still running
	// at or after the given instant (end_time > from), ordered by start
	// time. Used by the public booking page to present busy intervals.
	ListUpcoming(ctx context.Context, ownerID uuid.UUID, from time.Time, statuses []string) ([]Appointment, error)
}
