package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftster/internal/middleware"
	"giftster/internal/service"
)

// GiftHandler serves wish-list management and claim/unclaim.
type GiftHandler struct {
	gifts *service.GiftService
}

// NewGiftHandler creates the gift handler.
func NewGiftHandler(gifts *service.GiftService) *GiftHandler {
	return &GiftHandler{gifts: gifts}
}

type addGiftRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
}

// Add creates an item on the requester's own list in the group.
func (h *GiftHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addGiftRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	gift, err := h.gifts.AddItem(
		r.Context(),
		middleware.GetUserID(r.Context()),
		chi.URLParam(r, "groupID"),
		req.Name, req.Description, req.Link,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, gift)
}

// MyList returns the requester's own items in the group.
func (h *GiftHandler) MyList(w http.ResponseWriter, r *http.Request) {
	gifts, err := h.gifts.MyList(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gifts)
}

// Delete removes one of the requester's own items.
func (h *GiftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.gifts.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "giftID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Claim reserves another member's item for the requester.
func (h *GiftHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if err := h.gifts.Claim(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "giftID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unclaim releases the requester's claim on an item.
func (h *GiftHandler) Unclaim(w http.ResponseWriter, r *http.Request) {
	if err := h.gifts.Unclaim(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "giftID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
