package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftster/internal/middleware"
	"giftster/internal/service"
)

// ExchangeHandler serves starting the secret gift exchange and the
// per-member assignment lookup.
type ExchangeHandler struct {
	exchanges *service.ExchangeService
}

// NewExchangeHandler creates the exchange handler.
func NewExchangeHandler(exchanges *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{exchanges: exchanges}
}

// Start kicks off the group's exchange. Creator only, once per group. The
// response carries no assignments: members discover only their own receiver.
func (h *ExchangeHandler) Start(w http.ResponseWriter, r *http.Request) {
	err := h.exchanges.Start(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "gift exchange started",
	})
}

// Assignment returns who the requester gives to.
func (h *ExchangeHandler) Assignment(w http.ResponseWriter, r *http.Request) {
	receiver, err := h.exchanges.Assignment(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"receiver": receiver})
}
