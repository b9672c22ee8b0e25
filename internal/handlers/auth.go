package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"checkpoint/internal/auth"
	"checkpoint/internal/models"
	"checkpoint/internal/store"
	"checkpoint/internal/validate"
)

// UserStore is the credential-store surface the auth handlers need;
// satisfied by store.UserStore.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthHandler struct {
	users     UserStore
	jwtSecret []byte
}

func NewAuthHandler(users UserStore, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{users: users, jwtSecret: jwtSecret}
}

type authResponse struct {
	Token string             `json:"token"`
	User  models.UserSummary `json:"user"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in validate.RegistrationInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	in, errs := validate.Registration(in)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("failed to hash password", slog.Any("err", err))
		writeServerError(w)
		return
	}

	user, err := h.users.Create(r.Context(), in.Username, in.Email, string(hashed))
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrUsernameExists) {
			writeError(w, http.StatusBadRequest, "User already exists", nil)
			return
		}
		slog.Error("failed to create user", slog.Any("err", err))
		writeServerError(w)
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret, auth.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", slog.Any("err", err))
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user.Summary()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in validate.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	in, errs := validate.Login(in)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), in.Email)
	if err != nil {
		// Unknown email and wrong password produce identical responses so
		// account existence is not leaked.
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		slog.Error("failed to look up user", slog.Any("err", err))
		writeServerError(w)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret, auth.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", slog.Any("err", err))
		writeServerError(w)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user.Summary()})
}
