package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
)

type splitRequest struct {
	MemberEmail string  `json:"member_email"`
	Share       float64 `json:"share"`
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	PayerEmail  string  `json:"payer_email"`
	// Splits may be omitted to divide the amount equally among all members.
	Splits []splitRequest `json:"splits"`
}

type splitResponse struct {
	MemberEmail string  `json:"member_email"`
	Share       float64 `json:"share"`
}

type expenseResponse struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	Currency    string          `json:"currency"`
	PayerEmail  string          `json:"payer_email"`
	Splits      []splitResponse `json:"splits"`
	CreatedAt   int64           `json:"created_at"`
	CreatedBy   string          `json:"created_by,omitempty"`
}

func toExpenseResponse(expense *models.Expense) expenseResponse {
	resp := expenseResponse{
		ID:          expense.ID,
		GroupID:     expense.GroupID,
		Description: expense.Description,
		Amount:      expense.Amount,
		Currency:    expense.Currency,
		PayerEmail:  expense.PayerEmail,
		Splits:      make([]splitResponse, len(expense.Splits)),
		CreatedAt:   expense.CreatedAt,
		CreatedBy:   expense.CreatedBy,
	}
	for i, split := range expense.Splits {
		resp.Splits[i] = splitResponse{MemberEmail: split.MemberEmail, Share: split.Share}
	}
	return resp
}

// CreateExpense records a new expense in a group.
// POST /api/v1/groups/{groupID}/expenses
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expense := &models.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		PayerEmail:  req.PayerEmail,
		CreatedBy:   middleware.GetUserID(r.Context()),
	}
	for _, split := range req.Splits {
		expense.Splits = append(expense.Splits, models.ExpenseSplit{
			MemberEmail: split.MemberEmail,
			Share:       split.Share,
		})
	}

	created, err := h.ledger.CreateExpense(r.Context(), chi.URLParam(r, "groupID"), expense)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toExpenseResponse(created))
}

// ListExpenses retrieves a group's expenses, newest first.
// GET /api/v1/groups/{groupID}/expenses
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.ledger.ListExpenses(r.Context(), chi.URLParam(r, "groupID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]expenseResponse, len(expenses))
	for i, expense := range expenses {
		resp[i] = toExpenseResponse(expense)
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": resp})
}

// DeleteExpense removes an expense from a group.
// DELETE /api/v1/groups/{groupID}/expenses/{expenseID}
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.ledger.DeleteExpense(r.Context(), chi.URLParam(r, "groupID"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
