package handler

import (
	"errors"
	"net/http"

	"giftster/internal/auth"
	"giftster/internal/middleware"
	"giftster/internal/models"
	"giftster/internal/storage"
)

// AuthHandler serves registration, login, the current-user endpoint, and the
// password reset flow.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	reset         *auth.PasswordResetFlow
	users         storage.UserStore
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, reset *auth.PasswordResetFlow, users storage.UserStore) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		reset:         reset,
		users:         users,
	}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.FirstName == "" || req.Email == "" || req.Password == "" {
		badRequest(w, "firstName, email, and password are required")
		return
	}

	user, err := h.authenticator.Register(r.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

// Login authenticates and returns a session token. Unknown email and wrong
// password are indistinguishable in the response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, auth.ErrInvalidCredentials)
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, auth.ErrUserNotFound)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// RequestPasswordReset always answers 202: the response must not reveal
// whether the email belongs to an account.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeJSON(r, &req); err != nil || req.Email == "" {
		badRequest(w, "email is required")
		return
	}

	if err := h.reset.Request(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "if that email is registered, a reset link is on its way",
	})
}

// ConfirmPasswordReset verifies the emailed token and sets the new password.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmRequest
	if err := decodeJSON(r, &req); err != nil || req.Token == "" {
		badRequest(w, "token and password are required")
		return
	}

	if err := h.reset.Confirm(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
