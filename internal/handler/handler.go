// Package handler provides the HTTP API: JSON request/response shaping over
// the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage"
)

// Handler wraps the services behind the HTTP API.
type Handler struct {
	auth    *service.AuthService
	groups  *service.GroupService
	ledger  *service.LedgerService
	jwt     *auth.JWTManager
	metrics *metrics.Metrics
}

// New creates a new Handler.
func New(authSvc *service.AuthService, groupSvc *service.GroupService, ledgerSvc *service.LedgerService, jwt *auth.JWTManager, m *metrics.Metrics) *Handler {
	return &Handler{
		auth:    authSvc,
		groups:  groupSvc,
		ledger:  ledgerSvc,
		jwt:     jwt,
		metrics: m,
	}
}

// Routes assembles the full router: middleware chain, public auth and health
// endpoints, and the authenticated API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics(h.metrics))
	r.Use(middleware.Logging)

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.jwt))

			r.Get("/auth/me", h.CurrentUser)

			r.Route("/groups", func(r chi.Router) {
				r.Post("/", h.CreateGroup)
				r.Get("/", h.ListGroups)

				r.Route("/{groupID}", func(r chi.Router) {
					r.Get("/", h.GetGroup)
					r.Put("/", h.UpdateGroup)
					r.Delete("/", h.DeleteGroup)
					r.Post("/members", h.AddMembers)

					r.Post("/expenses", h.CreateExpense)
					r.Get("/expenses", h.ListExpenses)
					r.Delete("/expenses/{expenseID}", h.DeleteExpense)

					r.Post("/settlements", h.CreateSettlement)
					r.Get("/settlements", h.ListSettlements)
					r.Delete("/settlements/{settlementID}", h.DeleteSettlement)

					r.Get("/balances", h.GetBalances)
					r.Post("/balances/simulate", h.SimulateBalances)
				})
			})
		})
	})

	return r
}

// Health reports liveness.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes a JSON error body with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service and storage errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var integrityErr *ledger.DataIntegrityError

	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &integrityErr):
		writeError(w, http.StatusUnprocessableEntity, integrityErr.Error())
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, auth.ErrWeakPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		slog.Error("request failed",
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
