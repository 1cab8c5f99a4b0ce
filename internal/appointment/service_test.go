package appointment

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/beautyshop/beautyshop-server/internal/redis"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
)

type memRepo struct {
	appointments map[uuid.UUID]*Appointment
	countErr     error
}

func newMemRepo() *memRepo {
	return &memRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (r *memRepo) CountOverlapping(_ context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID, statuses []string) (int, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	n := 0
	for _, a := range r.appointments {
		if a.OwnerID != ownerID || a.ID == excludeID {
			continue
		}
		if !slices.Contains(statuses, string(a.Status)) {
			continue
		}
		if schedule.Overlaps(a.StartTime, a.EndTime, start, end) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) Create(_ context.Context, appt *Appointment) (*Appointment, error) {
	cp := *appt
	cp.ID = uuid.New()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) Update(_ context.Context, appt *Appointment) (*Appointment, error) {
	if _, ok := r.appointments[appt.ID]; !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *appt
	cp.UpdatedAt = time.Now()
	r.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*Appointment, error) {
	a, ok := r.appointments[id]
	if !ok || a.OwnerID != ownerID {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, filter ListFilter) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appointments {
		if a.OwnerID != ownerID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *memRepo) ListUpcoming(_ context.Context, ownerID uuid.UUID, from time.Time, statuses []string) ([]Appointment, error) {
	var out []Appointment
	for _, a := range r.appointments {
		if a.OwnerID != ownerID || !a.EndTime.After(from) {
			continue
		}
		if !slices.Contains(statuses, string(a.Status)) {
			continue
		}
		out = append(out, *a)
	}
	slices.SortFunc(out, func(a, b Appointment) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out, nil
}

func (r *memRepo) count(ownerID uuid.UUID) int {
	n := 0
	for _, a := range r.appointments {
		if a.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// passLocker runs the critical section inline.
type passLocker struct{}

func (passLocker) WithOwnerLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// heldLocker simulates a lock already held by another request.
type heldLocker struct{}

func (heldLocker) WithOwnerLock(context.Context, uuid.UUID, func(ctx context.Context) error) error {
	return redisclient.ErrLockNotAcquired
}

func newTestService(repo *memRepo, locker redisclient.Locker) *Service {
	engine := schedule.NewEngine(repo, DefaultOccupying)
	return NewService(repo, engine, locker)
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 25, hour, min, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, svc *Service, owner uuid.UUID, start, end time.Time) *Appointment {
	t.Helper()
	appt, err := svc.Create(context.Background(), owner, CreateParams{
		ClientName:  "Anna",
		ClientPhone: "+79991234567",
		StartTime:   start,
		EndTime:     end,
	})
	if err != nil {
		t.Fatalf("create %s-%s: %v", start.Format("15:04"), end.Format("15:04"), err)
	}
	return appt
}

func TestCreate_BookingScenario(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})
	owner := uuid.New()

	mustCreate(t, svc, owner, at(9, 0), at(10, 0))
	mustCreate(t, svc, owner, at(14, 0), at(15, 0))

	// The 10:00-11:00 gap right after the first appointment is bookable.
	appt := mustCreate(t, svc, owner, at(10, 0), at(11, 0))
	if appt.Status != StatusBooked {
		t.Fatalf("new appointment status = %s, want %s", appt.Status, StatusBooked)
	}

	// A request overlapping the slot just taken is rejected with no write.
	_, err := svc.Create(context.Background(), owner, CreateParams{
		ClientName:  "Maria",
		ClientPhone: "+79997654321",
		StartTime:   at(10, 30),
		EndTime:     at(11, 30),
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if got := repo.count(owner); got != 3 {
		t.Fatalf("store holds %d appointments, want 3", got)
	}
}

func TestCreate_OwnerIsolation(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})

	o1 := uuid.New()
	o2 := uuid.New()

	mustCreate(t, svc, o1, at(10, 0), at(11, 0))
	mustCreate(t, svc, o2, at(10, 0), at(11, 0))

	if repo.count(o1) != 1 || repo.count(o2) != 1 {
		t.Fatal("appointments for different masters interfered")
	}
}

func TestCreate_DegenerateInterval(t *testing.T) {
	svc := newTestService(newMemRepo(), passLocker{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateParams{
		ClientName:  "Anna",
		ClientPhone: "+79991234567",
		StartTime:   at(11, 0),
		EndTime:     at(10, 0),
	})
	if !errors.Is(err, schedule.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestCreate_LockHeld(t *testing.T) {
	svc := newTestService(newMemRepo(), heldLocker{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateParams{
		ClientName:  "Anna",
		ClientPhone: "+79991234567",
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	if !errors.Is(err, ErrCalendarBusy) {
		t.Fatalf("expected ErrCalendarBusy, got %v", err)
	}
}

func TestCreate_StorageErrorIsNotSlotTaken(t *testing.T) {
	repo := newMemRepo()
	repo.countErr = errors.New("connection reset")
	svc := newTestService(repo, passLocker{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateParams{
		ClientName:  "Anna",
		ClientPhone: "+79991234567",
		StartTime:   at(10, 0),
		EndTime:     at(11, 0),
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	if errors.Is(err, ErrSlotTaken) {
		t.Fatal("storage failure was coerced into a slot conflict")
	}
	if !errors.Is(err, repo.countErr) {
		t.Fatalf("storage error not propagated, got %v", err)
	}
}

func TestUpdate_RescheduleExcludesSelf(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})
	owner := uuid.New()

	appt := mustCreate(t, svc, owner, at(10, 0), at(11, 0))

	// Shifting within the appointment's own span must not self-conflict.
	newStart := at(10, 30)
	newEnd := at(11, 30)
	updated, err := svc.Update(context.Background(), owner, appt.ID, UpdateParams{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !updated.StartTime.Equal(newStart) || !updated.EndTime.Equal(newEnd) {
		t.Fatalf("interval not updated: %s-%s", updated.StartTime, updated.EndTime)
	}
}

func TestUpdate_RescheduleConflictLeavesRecordUntouched(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})
	owner := uuid.New()

	mustCreate(t, svc, owner, at(9, 0), at(10, 0))
	appt := mustCreate(t, svc, owner, at(11, 0), at(12, 0))

	newStart := at(9, 30)
	newEnd := at(10, 30)
	newName := "Renamed"
	_, err := svc.Update(context.Background(), owner, appt.ID, UpdateParams{
		ClientName: &newName,
		StartTime:  &newStart,
		EndTime:    &newEnd,
	})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	// The conflicting request must not partially apply.
	current, err := svc.Get(context.Background(), owner, appt.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if current.ClientName != "Anna" || !current.StartTime.Equal(at(11, 0)) {
		t.Fatalf("rejected update mutated the record: %+v", current)
	}
}

func TestUpdate_CancelFreesSlotAndReactivationRechecks(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})
	owner := uuid.New()

	first := mustCreate(t, svc, owner, at(10, 0), at(11, 0))

	canceled := StatusCanceled
	if _, err := svc.Update(context.Background(), owner, first.ID, UpdateParams{Status: &canceled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// The canceled appointment no longer occupies its slot.
	mustCreate(t, svc, owner, at(10, 0), at(11, 0))

	// Bringing the canceled one back would double-book, so it is re-checked.
	booked := StatusBooked
	_, err := svc.Update(context.Background(), owner, first.ID, UpdateParams{Status: &booked})
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken on reactivation, got %v", err)
	}
}

func TestUpdate_UnknownAppointment(t *testing.T) {
	svc := newTestService(newMemRepo(), passLocker{})

	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateParams{})
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestFreeSlots_UsesBusyIntervals(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo, passLocker{})
	owner := uuid.New()

	mustCreate(t, svc, owner, at(10, 0), at(11, 0))

	day := at(9, 0)
	slots, err := svc.FreeSlots(context.Background(), owner, at(9, 0), at(12, 0), time.Hour, time.Hour, day)
	if err != nil {
		t.Fatalf("free slots: %v", err)
	}
	want := []time.Time{at(9, 0), at(11, 0)}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d", len(slots), len(want))
	}
	for i := range want {
		if !slots[i].Equal(want[i]) {
			t.Fatalf("slot %d = %s, want %s", i, slots[i], want[i])
		}
	}
}
