package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/clientbook"
)

func listClientsHandler(repo *clientbook.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients, err := repo.ListByOwner(r.Context(), CurrentUserID(r.Context()))
		if err != nil {
			log.Printf("list clients: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not list clients")
			return
		}

		resp := make([]ClientResponse, len(clients))
		for i := range clients {
			resp[i] = toClientResponse(&clients[i])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createClientHandler(repo *clientbook.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateClientRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		created, err := repo.Create(r.Context(), &clientbook.Client{
			OwnerID: CurrentUserID(r.Context()),
			Name:    req.Name,
			Phone:   req.Phone,
			Notes:   req.Notes,
		})
		if err != nil {
			log.Printf("create client: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not create client")
			return
		}

		writeJSON(w, http.StatusCreated, toClientResponse(created))
	}
}

func updateClientHandler(repo *clientbook.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "id must be a valid UUID")
			return
		}

		var req UpdateClientRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		ownerID := CurrentUserID(r.Context())
		existing, err := repo.GetByID(r.Context(), ownerID, id)
		if err != nil {
			if errors.Is(err, clientbook.ErrClientNotFound) {
				writeError(w, http.StatusNotFound, "client_not_found", err.Error())
				return
			}
			log.Printf("load client %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not update client")
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.Phone != nil {
			existing.Phone = *req.Phone
		}
		if req.Notes != nil {
			existing.Notes = req.Notes
		}

		updated, err := repo.Update(r.Context(), existing)
		if err != nil {
			log.Printf("update client %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not update client")
			return
		}

		writeJSON(w, http.StatusOK, toClientResponse(updated))
	}
}

func deleteClientHandler(repo *clientbook.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_client_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), CurrentUserID(r.Context()), id); err != nil {
			if errors.Is(err, clientbook.ErrClientNotFound) {
				writeError(w, http.StatusNotFound, "client_not_found", err.Error())
				return
			}
			log.Printf("delete client %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not delete client")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
