package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

type memUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) (*user.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, user.ErrEmailTaken
		}
		if existing.Slug == u.Slug {
			return nil, user.ErrSlugTaken
		}
	}
	cp := *u
	cp.ID = uuid.New()
	r.users[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) GetBySlug(_ context.Context, slug string) (*user.User, error) {
	for _, u := range r.users {
		if u.Slug == slug {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

type memApptRepo struct {
	appointments map[uuid.UUID]*appointment.Appointment
}

func (r *memApptRepo) CountOverlapping(_ context.Context, ownerID uuid.UUID, start, end time.Time, excludeID uuid.UUID, statuses []string) (int, error) {
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

func (r *memApptRepo) Create(_ context.Context, appt *appointment.Appointment) (*appointment.Appointment, error) {
	cp := *appt
	cp.ID = uuid.New()
	r.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memApptRepo) Update(_ context.Context, appt *appointment.Appointment) (*appointment.Appointment, error) {
	cp := *appt
	r.appointments[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memApptRepo) GetByID(_ context.Context, ownerID, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok || a.OwnerID != ownerID {
		return nil, appointment.ErrAppointmentNotFound
	}
	return a, nil
}

func (r *memApptRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, _ appointment.ListFilter) ([]appointment.Appointment, error) {
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.OwnerID == ownerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memApptRepo) ListUpcoming(_ context.Context, ownerID uuid.UUID, from time.Time, statuses []string) ([]appointment.Appointment, error) {
	var out []appointment.Appointment
	for _, a := range r.appointments {
		if a.OwnerID == ownerID && a.EndTime.After(from) && slices.Contains(statuses, string(a.Status)) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type inlineLocker struct{}

func (inlineLocker) WithOwnerLock(ctx context.Context, _ uuid.UUID, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestRouter(t *testing.T) (http.Handler, *user.User) {
	t.Helper()

	users := &memUserRepo{users: make(map[uuid.UUID]*user.User)}
	master, err := users.Create(context.Background(), &user.User{
		Email:       "master@example.com",
		Name:        "Test Master",
		Slug:        "test-master",
		BookingMode: "manual",
	})
	if err != nil {
		t.Fatalf("seed master: %v", err)
	}

	repo := &memApptRepo{appointments: make(map[uuid.UUID]*appointment.Appointment)}
	engine := schedule.NewEngine(repo, appointment.DefaultOccupying)
	appts := appointment.NewService(repo, engine, inlineLocker{})

	router := NewRouter(RouterConfig{
		Appointments: appts,
		Users:        users,
		Issuer:       user.NewTokenIssuer("test-secret", time.Hour),
		Env:          "test",
		Version:      "test",
	})

	return router, master
}

func bookBody(start, end time.Time) string {
	return fmt.Sprintf(`{
		"client_name": "Maria Petrova",
		"client_phone": "+79997654321",
		"start_time": %q,
		"end_time": %q
	}`, start.Format(time.RFC3339), end.Format(time.RFC3339))
}

func postBook(router http.Handler, slug, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/public/"+slug+"/book", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPublicBooking_CreateAndConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	rec := postBook(router, "test-master", bookBody(start, end))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first booking status = %d, body %s", rec.Code, rec.Body)
	}

	var created AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if created.Status != string(appointment.StatusBooked) {
		t.Fatalf("created status = %s", created.Status)
	}

	// Overlapping request must be rejected with a conflict, not an error.
	rec = postBook(router, "test-master", bookBody(start.Add(30*time.Minute), end.Add(30*time.Minute)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("conflicting booking status = %d, body %s", rec.Code, rec.Body)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error != "slot_taken" {
		t.Fatalf("error code = %q, want slot_taken", errResp.Error)
	}

	// Back-to-back booking is allowed.
	rec = postBook(router, "test-master", bookBody(end, end.Add(time.Hour)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("back-to-back booking status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestPublicBooking_UnknownSlug(t *testing.T) {
	router, _ := newTestRouter(t)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := postBook(router, "nobody", bookBody(start, start.Add(time.Hour)))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestPublicBooking_InvalidInterval(t *testing.T) {
	router, _ := newTestRouter(t)

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := postBook(router, "test-master", bookBody(start, start.Add(-time.Hour)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body)
	}
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/appointments", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRescheduleThroughAPI(t *testing.T) {
	router, master := newTestRouter(t)

	issuer := user.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(master)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	rec := postBook(router, "test-master", bookBody(start, start.Add(time.Hour)))
	if rec.Code != http.StatusCreated {
		t.Fatalf("booking status = %d", rec.Code)
	}
	var created AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	// Move the appointment forward by 30 minutes; the overlap with its own
	// previous interval must not block the reschedule.
	body := fmt.Sprintf(`{"start_time": %q, "end_time": %q}`,
		start.Add(30*time.Minute).Format(time.RFC3339),
		start.Add(90*time.Minute).Format(time.RFC3339))

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/"+created.ID.String(), strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("reschedule status = %d, body %s", rec.Code, rec.Body)
	}
	var updated AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !updated.StartTime.Equal(start.Add(30 * time.Minute)) {
		t.Fatalf("start time = %s after reschedule", updated.StartTime)
	}
}
