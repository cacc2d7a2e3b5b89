package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftster/internal/middleware"
	"giftster/internal/models"
	"giftster/internal/service"
)

// GroupHandler serves group creation, joining, the dashboard, and the group
// detail page.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates the group handler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create makes a new group owned by the requester. The join code comes back
// in the response for sharing.
func (h *GroupHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, group)
}

type joinGroupRequest struct {
	JoinCode string `json:"joinCode"`
}

type joinGroupResponse struct {
	Group *models.Group `json:"group"`

	// AlreadyMember is true when the requester was in the group before
	// this call; joining twice is not an error.
	AlreadyMember bool `json:"alreadyMember"`
}

// Join adds the requester to the group matching the submitted code.
func (h *GroupHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinGroupRequest
	if err := decodeJSON(r, &req); err != nil || req.JoinCode == "" {
		badRequest(w, "joinCode is required")
		return
	}

	group, already, err := h.groups.JoinGroup(r.Context(), middleware.GetUserID(r.Context()), req.JoinCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, joinGroupResponse{Group: group, AlreadyMember: already})
}

// Dashboard lists the requester's groups with per-group shopping progress.
func (h *GroupHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.groups.Dashboard(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Detail shows the group with every other member's wish list.
func (h *GroupHandler) Detail(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	detail, err := h.groups.Detail(r.Context(), middleware.GetUserID(r.Context()), groupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
