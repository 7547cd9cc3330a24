package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jackmarxreacher-creator/rby-sub001/internal/middleware"
	"github.com/jackmarxreacher-creator/rby-sub001/internal/storage"
)

// AuthHandler signs console users in and out. Registration is closed:
// accounts are provisioned from the command line.
type AuthHandler struct {
	Users    storage.UserStore
	Sessions *middleware.Sessions
	Logger   *slog.Logger
}

func (h *AuthHandler) HandleLogin() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.Sessions.Resolve(r.Context()); ok {
			respondError(w, http.StatusConflict, "already logged in")
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")

		user, err := h.Users.GetUserByUsername(r.Context(), username)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				h.Logger.Error("db error on login", "err", err)
				respondError(w, http.StatusInternalServerError, "internal error")
				return
			}
			// burn comparable time so a missing user is not distinguishable
			bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000uGyUwCM1njLFDHHAXSuQrEnM9nDeGa6i"), []byte(password))
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			respondError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}

		if err := h.Sessions.Login(r.Context(), user.ID); err != nil {
			h.Logger.Error("session login", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		h.Logger.Info("user logged in", "id", user.ID, "username", user.Username)
		respondJSON(w, http.StatusOK, map[string]string{"id": user.ID.String(), "username": user.Username})
	})
}

func (h *AuthHandler) HandleLogout() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.Sessions.Logout(r.Context()); err != nil {
			h.Logger.Error("destroy session", "err", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}

		h.Logger.Info("user logged out")
		respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
	})
}
