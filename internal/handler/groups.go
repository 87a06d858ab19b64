package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/models"
)

type memberRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type groupRequest struct {
	Name     string          `json:"name"`
	Currency string          `json:"currency"`
	Members  []memberRequest `json:"members"`
}

type memberResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	AccountID   string `json:"account_id,omitempty"`
}

type groupResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Currency  string           `json:"currency"`
	Members   []memberResponse `json:"members"`
	CreatedAt int64            `json:"created_at"`
}

func toMembers(reqs []memberRequest) []models.Member {
	members := make([]models.Member, len(reqs))
	for i, m := range reqs {
		members[i] = models.Member{Email: m.Email, DisplayName: m.DisplayName}
	}
	return members
}

func toGroupResponse(group *models.Group) groupResponse {
	resp := groupResponse{
		ID:        group.ID,
		Name:      group.Name,
		Currency:  group.Currency,
		Members:   make([]memberResponse, len(group.Members)),
		CreatedAt: group.CreatedAt,
	}
	for i, m := range group.Members {
		resp.Members[i] = memberResponse{
			Email:       m.Email,
			DisplayName: m.DisplayName,
			AccountID:   m.AccountID,
		}
	}
	return resp
}

// CreateGroup creates a new group.
// POST /api/v1/groups
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groups.CreateGroup(r.Context(), req.Name, req.Currency, toMembers(req.Members))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

// ListGroups retrieves all groups.
// GET /api/v1/groups
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, group := range groups {
		resp[i] = toGroupResponse(group)
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": resp})
}

// GetGroup retrieves a group by ID.
// GET /api/v1/groups/{groupID}
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.GetGroup(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// UpdateGroup updates a group's name and currency.
// PUT /api/v1/groups/{groupID}
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groups.UpdateGroup(r.Context(), chi.URLParam(r, "groupID"), req.Name, req.Currency)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

// DeleteGroup removes a group and its ledger history.
// DELETE /api/v1/groups/{groupID}
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.DeleteGroup(r.Context(), chi.URLParam(r, "groupID")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddMembers invites members to a group by email.
// POST /api/v1/groups/{groupID}/members
func (h *Handler) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Members []memberRequest `json:"members"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	group, err := h.groups.AddMembers(r.Context(), chi.URLParam(r, "groupID"), toMembers(req.Members))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toGroupResponse(group))
}
