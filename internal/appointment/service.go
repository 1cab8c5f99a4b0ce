package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/beautyshop/beautyshop-server/internal/redis"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
)

var (
	ErrCalendarBusy  = errors.New("calendar is busy, please retry")
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// PublicStatuses are the statuses shown as busy intervals on the public
// booking page. Completed appointments are in the past and omitted.
var PublicStatuses = []string{
	string(StatusBooked),
	string(StatusConfirmed),
}

type CreateParams struct {
	ServiceID   *uuid.UUID
	ClientName  string
	ClientPhone string
	StartTime   time.Time
	EndTime     time.Time
	FinalPrice  *int
	Notes       *string
}

// UpdateParams carries a partial update; nil fields keep their current value.
type UpdateParams struct {
	ServiceID   *uuid.UUID
	ClientName  *string
	ClientPhone *string
	StartTime   *time.Time
	EndTime     *time.Time
	FinalPrice  *int
	Notes       *string
	Status      *Status
}

// Service funnels every appointment creation and time mutation through the
// scheduling engine. The engine check and the write run under a per-owner
// lock, and the storage-level exclusion constraint backs the invariant even
// if the lock is lost mid-flight.
type Service struct {
	repo   Repository
	engine *schedule.Engine
	locker redisclient.Locker
}

func NewService(repo Repository, engine *schedule.Engine, locker redisclient.Locker) *Service {
	return &Service{
		repo:   repo,
		engine: engine,
		locker: locker,
	}
}

// Create books a new appointment for the owner. It is used by both the
// public booking intake and the authenticated calendar.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, p CreateParams) (*Appointment, error) {
	if !p.EndTime.After(p.StartTime) {
		return nil, schedule.ErrInvalidInterval
	}

	var created *Appointment

	err := s.locker.WithOwnerLock(ctx, ownerID, func(lockCtx context.Context) error {
		available, err := s.engine.IsSlotAvailable(lockCtx, ownerID, p.StartTime, p.EndTime, uuid.Nil)
		if err != nil {
			return fmt.Errorf("check slot availability: %w", err)
		}
		if !available {
			return ErrSlotTaken
		}

		appt, err := s.repo.Create(lockCtx, &Appointment{
			OwnerID:     ownerID,
			ServiceID:   p.ServiceID,
			ClientName:  p.ClientName,
			ClientPhone: p.ClientPhone,
			StartTime:   p.StartTime,
			EndTime:     p.EndTime,
			Status:      StatusBooked,
			FinalPrice:  p.FinalPrice,
			Notes:       p.Notes,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrCalendarBusy
		}
		return nil, err
	}

	return created, nil
}

// Update applies a partial update to an owner's appointment. When the time
// interval changes, or a canceled appointment returns to an occupying
// status, availability is re-checked with the appointment itself excluded
// from the conflict set.
func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, p UpdateParams) (*Appointment, error) {
	existing, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil && !ValidStatus(*p.Status) {
		return nil, ErrInvalidStatus
	}

	next := *existing
	if p.ServiceID != nil {
		next.ServiceID = p.ServiceID
	}
	if p.ClientName != nil {
		next.ClientName = *p.ClientName
	}
	if p.ClientPhone != nil {
		next.ClientPhone = *p.ClientPhone
	}
	if p.StartTime != nil {
		next.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		next.EndTime = *p.EndTime
	}
	if p.FinalPrice != nil {
		next.FinalPrice = p.FinalPrice
	}
	if p.Notes != nil {
		next.Notes = p.Notes
	}
	if p.Status != nil {
		next.Status = *p.Status
	}

	if !next.EndTime.After(next.StartTime) {
		return nil, schedule.ErrInvalidInterval
	}

	timeChanged := p.StartTime != nil || p.EndTime != nil
	reactivated := existing.Status == StatusCanceled && next.Status != StatusCanceled

	if !timeChanged && !reactivated {
		updated, err := s.repo.Update(ctx, &next)
		if err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
		return updated, nil
	}

	var updated *Appointment

	err = s.locker.WithOwnerLock(ctx, ownerID, func(lockCtx context.Context) error {
		available, err := s.engine.IsSlotAvailable(lockCtx, ownerID, next.StartTime, next.EndTime, id)
		if err != nil {
			return fmt.Errorf("check slot availability: %w", err)
		}
		if !available {
			return ErrSlotTaken
		}

		updated, err = s.repo.Update(lockCtx, &next)
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrCalendarBusy
		}
		return nil, err
	}

	return updated, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, filter ListFilter) ([]Appointment, error) {
	if filter.Status != "" && !ValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	appts, err := s.repo.ListByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// BusyIntervals returns the occupied spans shown on the public booking page.
func (s *Service) BusyIntervals(ctx context.Context, ownerID uuid.UUID, from time.Time) ([]schedule.Interval, error) {
	appts, err := s.repo.ListUpcoming(ctx, ownerID, from, PublicStatuses)
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}

	intervals := make([]schedule.Interval, len(appts))
	for i, a := range appts {
		intervals[i] = schedule.Interval{Start: a.StartTime, End: a.EndTime}
	}
	return intervals, nil
}

// FreeSlots computes the start times within the window where a booking of
// the given duration would fit on the owner's calendar.
func (s *Service) FreeSlots(ctx context.Context, ownerID uuid.UUID, windowStart, windowEnd time.Time, duration, step time.Duration, now time.Time) ([]time.Time, error) {
	busy, err := s.BusyIntervals(ctx, ownerID, windowStart)
	if err != nil {
		return nil, err
	}
	return schedule.AvailableSlots(windowStart, windowEnd, duration, step, busy, now), nil
}
