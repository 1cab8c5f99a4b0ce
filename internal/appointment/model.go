package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// DefaultOccupying lists the statuses that block a slot during conflict
// checks. Canceled appointments free their slot.
var DefaultOccupying = []string{
	string(StatusBooked),
	string(StatusConfirmed),
	string(StatusCompleted),
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusBooked, StatusConfirmed, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// Appointment is one booked interval on a master's calendar, half-open on
// the right. OwnerID scopes every conflict check; two masters' calendars
// never interact.
type Appointment struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	ServiceID   *uuid.UUID
	ClientName  string
	ClientPhone string
	StartTime   time.Time
	EndTime     time.Time
	Status      Status
	FinalPrice  *int
	Notes       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListFilter narrows ListByOwner. Zero values mean no constraint.
type ListFilter struct {
	Status Status
	From   time.Time
	To     time.Time
}
