// Package handler implements the JSON HTTP handlers over the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"giftster/internal/auth"
	"giftster/internal/service"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type (e.g. "not_a_member")
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// errorStatus maps a domain sentinel to its HTTP status and error type.
// Every authorization and validation failure stays distinguishable so the
// client can render the right message; anything unmapped is a 500 and the
// detail stays in the log.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "weak_password"
	case errors.Is(err, auth.ErrResetTokenInvalid):
		return http.StatusBadRequest, "reset_token_invalid"
	case errors.Is(err, auth.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"

	case errors.Is(err, service.ErrGroupNotFound):
		return http.StatusNotFound, "group_not_found"
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound, "item_not_found"
	case errors.Is(err, service.ErrInvalidJoinCode):
		return http.StatusNotFound, "invalid_join_code"
	case errors.Is(err, service.ErrExchangeNotStarted):
		return http.StatusNotFound, "exchange_not_started"

	case errors.Is(err, service.ErrNotAMember):
		return http.StatusForbidden, "not_a_member"
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden, "not_owner"
	case errors.Is(err, service.ErrNotClaimer):
		return http.StatusForbidden, "not_claimer"
	case errors.Is(err, service.ErrSelfClaim):
		return http.StatusForbidden, "self_claim"
	case errors.Is(err, service.ErrNotCreator):
		return http.StatusForbidden, "not_creator"

	case errors.Is(err, service.ErrAlreadyClaimed):
		return http.StatusConflict, "already_claimed"
	case errors.Is(err, service.ErrExchangeStarted):
		return http.StatusConflict, "exchange_started"

	case errors.Is(err, service.ErrInsufficientMembers):
		return http.StatusBadRequest, "insufficient_members"
	case errors.Is(err, service.ErrNameRequired):
		return http.StatusBadRequest, "name_required"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError sends a domain error as a JSON error response.
func writeError(w http.ResponseWriter, err error) {
	status, errType := errorStatus(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request error", "error", err)
		message = "something went wrong, please try again"
	}

	writeJSON(w, status, ErrorResponse{Error: errType, Message: message})
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// badRequest reports a malformed request body.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: message})
}
