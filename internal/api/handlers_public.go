package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/catalog"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
	"github.com/beautyshop/beautyshop-server/internal/user"
)

// slotStep is the granularity of suggested start times on the public page.
const slotStep = 30 * time.Minute

func resolveMaster(w http.ResponseWriter, r *http.Request, users user.Repository) (*user.User, bool) {
	slug := chi.URLParam(r, "slug")

	u, err := users.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "master_not_found", "no master with this booking page")
			return nil, false
		}
		log.Printf("resolve slug %q: %v", slug, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not load booking page")
		return nil, false
	}

	return u, true
}

func masterPageHandler(users user.Repository, services *catalog.PgRepository, appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := resolveMaster(w, r, users)
		if !ok {
			return
		}

		public, err := services.ListPublic(r.Context(), u.ID)
		if err != nil {
			log.Printf("list public services for %s: %v", u.Slug, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load booking page")
			return
		}

		busy, err := appts.BusyIntervals(r.Context(), u.ID, time.Now())
		if err != nil {
			log.Printf("list busy intervals for %s: %v", u.Slug, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load booking page")
			return
		}

		resp := MasterPageResponse{
			Name:        u.Name,
			Slug:        u.Slug,
			BookingMode: u.BookingMode,
			Services:    make([]ServiceResponse, len(public)),
			Busy:        make([]BusyInterval, len(busy)),
		}
		for i := range public {
			resp.Services[i] = toServiceResponse(&public[i])
		}
		for i, b := range busy {
			resp.Busy[i] = BusyInterval{StartTime: b.Start, EndTime: b.End}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func slotsHandler(users user.Repository, services *catalog.PgRepository, appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := resolveMaster(w, r, users)
		if !ok {
			return
		}

		serviceID, err := uuid.Parse(r.URL.Query().Get("service_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		day, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must look like 2006-01-02")
			return
		}

		svc, err := services.GetByID(r.Context(), u.ID, serviceID)
		if err != nil || !svc.IsPublic {
			writeError(w, http.StatusNotFound, "service_not_found", "no such bookable service")
			return
		}

		windowStart := day
		windowEnd := day.AddDate(0, 0, 1)
		duration := time.Duration(svc.DurationMin) * time.Minute

		slots, err := appts.FreeSlots(r.Context(), u.ID, windowStart, windowEnd, duration, slotStep, time.Now())
		if err != nil {
			log.Printf("compute slots for %s: %v", u.Slug, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not compute free slots")
			return
		}

		writeJSON(w, http.StatusOK, SlotsResponse{Slots: slots})
	}
}

func bookHandler(users user.Repository, appts *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := resolveMaster(w, r, users)
		if !ok {
			return
		}

		var req CreateAppointmentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		created, err := appts.Create(r.Context(), u.ID, appointment.CreateParams{
			ServiceID:   req.ServiceID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			FinalPrice:  req.FinalPrice,
			Notes:       req.Notes,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAppointmentResponse(created))
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", "the requested time slot is already taken")
	case errors.Is(err, appointment.ErrCalendarBusy):
		writeError(w, http.StatusConflict, "calendar_busy", "the calendar is being updated, please retry shortly")
	case errors.Is(err, schedule.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "invalid_interval", "end_time must be after start_time")
	default:
		log.Printf("booking error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not create appointment")
	}
}
