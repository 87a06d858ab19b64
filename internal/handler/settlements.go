package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
)

type settlementRequest struct {
	PayerEmail string  `json:"payer_email"`
	PayeeEmail string  `json:"payee_email"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Note       string  `json:"note"`
}

type settlementResponse struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"group_id"`
	PayerEmail string  `json:"payer_email"`
	PayeeEmail string  `json:"payee_email"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  int64   `json:"created_at"`
	CreatedBy  string  `json:"created_by,omitempty"`
}

func toSettlementResponse(settlement *models.Settlement) settlementResponse {
	return settlementResponse{
		ID:         settlement.ID,
		GroupID:    settlement.GroupID,
		PayerEmail: settlement.PayerEmail,
		PayeeEmail: settlement.PayeeEmail,
		Amount:     settlement.Amount,
		Currency:   settlement.Currency,
		Note:       settlement.Note,
		CreatedAt:  settlement.CreatedAt,
		CreatedBy:  settlement.CreatedBy,
	}
}

func (req settlementRequest) toModel(createdBy string) *models.Settlement {
	return &models.Settlement{
		PayerEmail: req.PayerEmail,
		PayeeEmail: req.PayeeEmail,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Note:       req.Note,
		CreatedBy:  createdBy,
	}
}

// CreateSettlement validates and records a settlement. A validation
// rejection is returned as a 422 with the specific reason.
// POST /api/v1/groups/{groupID}/settlements
func (h *Handler) CreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settlement := req.toModel(middleware.GetUserID(r.Context()))
	result, err := h.ledger.RecordSettlement(r.Context(), chi.URLParam(r, "groupID"), settlement)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !result.OK {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": result.Reason,
			"code":  result.Code,
		})
		return
	}

	writeJSON(w, http.StatusCreated, toSettlementResponse(settlement))
}

// ListSettlements retrieves a group's settlements, newest first.
// GET /api/v1/groups/{groupID}/settlements
func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := h.ledger.ListSettlements(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]settlementResponse, len(settlements))
	for i, settlement := range settlements {
		resp[i] = toSettlementResponse(settlement)
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": resp})
}

// DeleteSettlement removes a settlement from a group.
// DELETE /api/v1/groups/{groupID}/settlements/{settlementID}
func (h *Handler) DeleteSettlement(w http.ResponseWriter, r *http.Request) {
	err := h.ledger.DeleteSettlement(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "settlementID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
