package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

type memberBalanceResponse struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	AccountID   string  `json:"account_id,omitempty"`
	Balance     float64 `json:"balance"`
	TotalPaid   float64 `json:"total_paid"`
	TotalOwed   float64 `json:"total_owed"`
	Status      string  `json:"status"`
}

type settleUpResponse struct {
	FromEmail string  `json:"from_email"`
	FromName  string  `json:"from_name"`
	ToEmail   string  `json:"to_email"`
	ToName    string  `json:"to_name"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

type balanceSummaryResponse struct {
	PerMember              []memberBalanceResponse `json:"per_member"`
	SimplifiedTransactions []settleUpResponse      `json:"simplified_transactions"`
	TotalExpenses          float64                 `json:"total_expenses"`
	TotalSettlements       float64                 `json:"total_settlements"`
	Currency               string                  `json:"currency"`
	Warning                string                  `json:"warning,omitempty"`
}

type simulateRequest struct {
	Settlements []settlementRequest `json:"settlements"`
}

type projectedBalanceResponse struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Balance     float64 `json:"balance"`
}

type whatIfResponse struct {
	Projected        []projectedBalanceResponse `json:"projected"`
	RemainingNonZero int                        `json:"remaining_non_zero"`
}

func toBalanceSummaryResponse(summary *service.BalanceSummary) balanceSummaryResponse {
	resp := balanceSummaryResponse{
		PerMember:              make([]memberBalanceResponse, len(summary.PerMember)),
		SimplifiedTransactions: make([]settleUpResponse, len(summary.SimplifiedTransactions)),
		TotalExpenses:          summary.TotalExpenses,
		TotalSettlements:       summary.TotalSettlements,
		Currency:               summary.Currency,
		Warning:                summary.Warning,
	}
	for i, mb := range summary.PerMember {
		resp.PerMember[i] = memberBalanceResponse{
			Email:       mb.Email,
			DisplayName: mb.DisplayName,
			AccountID:   mb.AccountID,
			Balance:     mb.Balance,
			TotalPaid:   mb.TotalPaid,
			TotalOwed:   mb.TotalOwed,
			Status:      string(mb.Status),
		}
	}
	for i, tx := range summary.SimplifiedTransactions {
		resp.SimplifiedTransactions[i] = settleUpResponse{
			FromEmail: tx.FromEmail,
			FromName:  tx.FromName,
			ToEmail:   tx.ToEmail,
			ToName:    tx.ToName,
			Amount:    tx.Amount,
			Currency:  tx.Currency,
		}
	}
	return resp
}

// GetBalances recomputes the group's balance summary from its full history.
// GET /api/v1/groups/{groupID}/balances
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.BalanceSummaryFor(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBalanceSummaryResponse(summary))
}

// SimulateBalances projects balances after hypothetical settlements without
// recording anything.
// POST /api/v1/groups/{groupID}/balances/simulate
func (h *Handler) SimulateBalances(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposed := make([]*models.Settlement, len(req.Settlements))
	for i, s := range req.Settlements {
		proposed[i] = s.toModel("")
	}

	result, err := h.ledger.WhatIf(r.Context(), chi.URLParam(r, "groupID"), proposed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := whatIfResponse{RemainingNonZero: result.RemainingNonZero}
	for _, pb := range result.Projected {
		resp.Projected = append(resp.Projected, projectedBalanceResponse{
			Email:       pb.Email,
			DisplayName: pb.DisplayName,
			Balance:     pb.Balance,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
