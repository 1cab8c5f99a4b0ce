package schedule

import (
	"testing"
	"time"
)

func TestAvailableSlots_AroundBusyInterval(t *testing.T) {
	day := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
	windowStart := day.Add(9 * time.Hour)
	windowEnd := day.Add(10 * time.Hour)

	busy := []Interval{
		{Start: day.Add(9*time.Hour + 15*time.Minute), End: day.Add(9*time.Hour + 45*time.Minute)},
	}

	slots := AvailableSlots(windowStart, windowEnd, 15*time.Minute, 15*time.Minute, busy, day)
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].Equal(day.Add(9 * time.Hour)) {
		t.Fatalf("expected first slot 09:00, got %s", slots[0].Format(time.RFC3339))
	}
	if !slots[1].Equal(day.Add(9*time.Hour + 45*time.Minute)) {
		t.Fatalf("expected second slot 09:45, got %s", slots[1].Format(time.RFC3339))
	}
}

func TestAvailableSlots_SkipsPastStarts(t *testing.T) {
	day := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
	windowStart := day.Add(9 * time.Hour)
	windowEnd := day.Add(10 * time.Hour)

	now := day.Add(9*time.Hour + 31*time.Minute)
	slots := AvailableSlots(windowStart, windowEnd, 15*time.Minute, 15*time.Minute, nil, now)
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].Equal(day.Add(9*time.Hour + 45*time.Minute)) {
		t.Fatalf("expected slot 09:45, got %s", slots[0].Format(time.RFC3339))
	}
}

func TestAvailableSlots_DegenerateInputs(t *testing.T) {
	day := time.Date(2026, 3, 25, 9, 0, 0, 0, time.UTC)

	if got := AvailableSlots(day, day, 15*time.Minute, 15*time.Minute, nil, day); got != nil {
		t.Fatalf("empty window produced %d slots", len(got))
	}
	if got := AvailableSlots(day, day.Add(time.Hour), 0, 15*time.Minute, nil, day); got != nil {
		t.Fatalf("zero duration produced %d slots", len(got))
	}
	if got := AvailableSlots(day, day.Add(10*time.Minute), 15*time.Minute, 5*time.Minute, nil, day); got != nil {
		t.Fatalf("window shorter than duration produced %d slots", len(got))
	}
}
