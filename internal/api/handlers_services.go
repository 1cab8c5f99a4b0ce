package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/catalog"
)

func listServicesHandler(repo *catalog.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services, err := repo.ListByOwner(r.Context(), CurrentUserID(r.Context()))
		if err != nil {
			log.Printf("list services: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not list services")
			return
		}

		resp := make([]ServiceResponse, len(services))
		for i := range services {
			resp[i] = toServiceResponse(&services[i])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createServiceHandler(repo *catalog.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateServiceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		isPublic := true
		if req.IsPublic != nil {
			isPublic = *req.IsPublic
		}

		created, err := repo.Create(r.Context(), &catalog.Service{
			OwnerID:     CurrentUserID(r.Context()),
			Name:        req.Name,
			Price:       req.Price,
			DurationMin: req.DurationMin,
			IsPublic:    isPublic,
		})
		if err != nil {
			log.Printf("create service: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not create service")
			return
		}

		writeJSON(w, http.StatusCreated, toServiceResponse(created))
	}
}

func updateServiceHandler(repo *catalog.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "id must be a valid UUID")
			return
		}

		var req UpdateServiceRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		ownerID := CurrentUserID(r.Context())
		existing, err := repo.GetByID(r.Context(), ownerID, id)
		if err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				writeError(w, http.StatusNotFound, "service_not_found", err.Error())
				return
			}
			log.Printf("load service %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not update service")
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Price != nil {
			existing.Price = *req.Price
		}
		if req.DurationMin != nil {
			existing.DurationMin = *req.DurationMin
		}
		if req.IsPublic != nil {
			existing.IsPublic = *req.IsPublic
		}

		updated, err := repo.Update(r.Context(), existing)
		if err != nil {
			log.Printf("update service %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not update service")
			return
		}

		writeJSON(w, http.StatusOK, toServiceResponse(updated))
	}
}

func deleteServiceHandler(repo *catalog.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), CurrentUserID(r.Context()), id); err != nil {
			if errors.Is(err, catalog.ErrServiceNotFound) {
				writeError(w, http.StatusNotFound, "service_not_found", err.Error())
				return
			}
			log.Printf("delete service %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not delete service")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
