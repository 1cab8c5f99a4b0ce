package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/appointment"
	"github.com/beautyshop/beautyshop-server/internal/schedule"
)

func parseQueryTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := appointment.ListFilter{
			Status: appointment.Status(q.Get("status")),
		}

		if raw := q.Get("start_date"); raw != "" {
			t, err := parseQueryTime(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_start_date", "start_date must be RFC 3339 or 2006-01-02")
				return
			}
			filter.From = t
		}
		if raw := q.Get("end_date"); raw != "" {
			t, err := parseQueryTime(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_end_date", "end_date must be RFC 3339 or 2006-01-02")
				return
			}
			filter.To = t
		}

		appts, err := svc.List(r.Context(), CurrentUserID(r.Context()), filter)
		if err != nil {
			if errors.Is(err, appointment.ErrInvalidStatus) {
				writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
				return
			}
			log.Printf("list appointments: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not list appointments")
			return
		}

		resp := make([]AppointmentResponse, len(appts))
		for i := range appts {
			resp[i] = toAppointmentResponse(&appts[i])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		appt, err := svc.Get(r.Context(), CurrentUserID(r.Context()), id)
		if err != nil {
			if errors.Is(err, appointment.ErrAppointmentNotFound) {
				writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
				return
			}
			log.Printf("get appointment %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load appointment")
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req UpdateAppointmentRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		params := appointment.UpdateParams{
			ServiceID:   req.ServiceID,
			ClientName:  req.ClientName,
			ClientPhone: req.ClientPhone,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			FinalPrice:  req.FinalPrice,
			Notes:       req.Notes,
		}
		if req.Status != nil {
			status := appointment.Status(*req.Status)
			params.Status = &status
		}

		updated, err := svc.Update(r.Context(), CurrentUserID(r.Context()), id, params)
		if err != nil {
			handleUpdateError(w, id, err)
			return
		}

		writeJSON(w, http.StatusOK, toAppointmentResponse(updated))
	}
}

func handleUpdateError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, appointment.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", "the requested time slot is already taken")
	case errors.Is(err, appointment.ErrCalendarBusy):
		writeError(w, http.StatusConflict, "calendar_busy", "the calendar is being updated, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, schedule.ErrInvalidInterval):
		writeError(w, http.StatusBadRequest, "invalid_interval", "end_time must be after start_time")
	default:
		log.Printf("update appointment %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "could not update appointment")
	}
}
