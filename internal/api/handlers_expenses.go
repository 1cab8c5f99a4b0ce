package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/expense"
)

func listExpensesHandler(repo *expense.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenses, err := repo.ListByOwner(r.Context(), CurrentUserID(r.Context()))
		if err != nil {
			log.Printf("list expenses: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not list expenses")
			return
		}

		resp := make([]ExpenseResponse, len(expenses))
		for i := range expenses {
			resp[i] = toExpenseResponse(&expenses[i])
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func createExpenseHandler(repo *expense.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateExpenseRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		created, err := repo.Create(r.Context(), &expense.Expense{
			OwnerID:     CurrentUserID(r.Context()),
			Amount:      req.Amount,
			Description: req.Description,
		})
		if err != nil {
			log.Printf("create expense: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not create expense")
			return
		}

		writeJSON(w, http.StatusCreated, toExpenseResponse(created))
	}
}

func deleteExpenseHandler(repo *expense.PgRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_expense_id", "id must be a valid UUID")
			return
		}

		if err := repo.Delete(r.Context(), CurrentUserID(r.Context()), id); err != nil {
			if errors.Is(err, expense.ErrExpenseNotFound) {
				writeError(w, http.StatusNotFound, "expense_not_found", err.Error())
				return
			}
			log.Printf("delete expense %s: %v", id, err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not delete expense")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
