package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/beautyshop/beautyshop-server/internal/user"
)

func registerHandler(users user.Repository, issuer *user.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		hash, err := user.HashPassword(req.Password)
		if err != nil {
			log.Printf("hash password: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not register user")
			return
		}

		slug := user.Slugify(req.Name)
		if slug == "" {
			slug = "master-" + uuid.NewString()[:8]
		}

		u := &user.User{
			Email:        req.Email,
			PasswordHash: hash,
			Name:         req.Name,
			Slug:         slug,
			BookingMode:  "manual",
		}

		created, err := users.Create(r.Context(), u)
		if errors.Is(err, user.ErrSlugTaken) {
			// Slugs collide across accounts with the same display name.
			u.Slug = slug + "-" + uuid.NewString()[:8]
			created, err = users.Create(r.Context(), u)
		}
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				writeError(w, http.StatusConflict, "email_taken", err.Error())
				return
			}
			log.Printf("create user: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not register user")
			return
		}

		token, err := issuer.Issue(created)
		if err != nil {
			log.Printf("issue token: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not issue token")
			return
		}

		writeJSON(w, http.StatusCreated, AuthResponse{
			User:  toUserResponse(created),
			Token: token,
		})
	}
}

func loginHandler(users user.Repository, issuer *user.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		u, err := users.GetByEmail(r.Context(), req.Email)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(w, http.StatusBadRequest, "invalid_credentials", "email or password is incorrect")
				return
			}
			log.Printf("load user by email: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not log in")
			return
		}

		if !user.CheckPassword(req.Password, u.PasswordHash) {
			writeError(w, http.StatusBadRequest, "invalid_credentials", "email or password is incorrect")
			return
		}

		token, err := issuer.Issue(u)
		if err != nil {
			log.Printf("issue token: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not issue token")
			return
		}

		writeJSON(w, http.StatusOK, AuthResponse{
			User:  toUserResponse(u),
			Token: token,
		})
	}
}

func meHandler(users user.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.GetByID(r.Context(), CurrentUserID(r.Context()))
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user_not_found", err.Error())
				return
			}
			log.Printf("load user: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "could not load user")
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}
