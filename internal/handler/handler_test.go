package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
	"github.com/splitledger/splitledger/pkg/logging"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := logging.Setup("error", "text")
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	m := metrics.New()

	authSvc := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, store, logger)
	groupSvc := service.NewGroupService(store, logger)
	ledgerSvc := service.NewLedgerService(store, m, logger)

	return New(authSvc, groupSvc, ledgerSvc, jwtManager, m).Routes()
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func registerUser(t *testing.T, router chi.Router, email, name string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Email:       email,
		DisplayName: name,
		Password:    "password123",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var session sessionResponse
	decodeBody(t, rec, &session)
	return session.Token
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("unexpected status: %s", resp["status"])
	}
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/groups", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/groups", "not-a-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 for bad token, got %d", rec.Code)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice@example.com", "Alice")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me returned %d: %s", rec.Code, rec.Body.String())
	}
	var me userResponse
	decodeBody(t, rec, &me)
	if me.Email != "alice@example.com" {
		t.Errorf("got email %q, want alice@example.com", me.Email)
	}

	// Duplicate registration conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", registerRequest{
		Email: "alice@example.com", DisplayName: "Alice", Password: "password123",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", rec.Code)
	}

	// Wrong password is rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email: "alice@example.com", Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login returned %d, want 401", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email: "alice@example.com", Password: "password123",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("login returned %d, want 200", rec.Code)
	}
}

// createTestGroup registers a user and creates a three-member group,
// returning the token and the group ID.
func createTestGroup(t *testing.T, router chi.Router) (string, string) {
	t.Helper()

	token := registerUser(t, router, "alice@example.com", "Alice")
	rec := doJSON(t, router, http.MethodPost, "/api/v1/groups/", token, groupRequest{
		Name:     "Ski Trip",
		Currency: "USD",
		Members: []memberRequest{
			{Email: "alice@example.com", DisplayName: "Alice"},
			{Email: "bob@example.com", DisplayName: "Bob"},
			{Email: "charlie@example.com", DisplayName: "Charlie"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group returned %d: %s", rec.Code, rec.Body.String())
	}

	var group groupResponse
	decodeBody(t, rec, &group)
	return token, group.ID
}

func TestExpenseAndBalanceFlow(t *testing.T) {
	router := newTestRouter(t)
	token, groupID := createTestGroup(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/expenses", groupID), token, expenseRequest{
		Description: "Cabin",
		Amount:      120.0,
		PayerEmail:  "alice@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/groups/%s/balances", groupID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balances returned %d: %s", rec.Code, rec.Body.String())
	}

	var summary balanceSummaryResponse
	decodeBody(t, rec, &summary)

	if len(summary.PerMember) != 3 {
		t.Fatalf("got %d members, want 3", len(summary.PerMember))
	}
	want := map[string]float64{
		"alice@example.com":   80.0,
		"bob@example.com":     -40.0,
		"charlie@example.com": -40.0,
	}
	for _, mb := range summary.PerMember {
		if math.Abs(mb.Balance-want[mb.Email]) > 0.001 {
			t.Errorf("%s balance = %.2f, want %.2f", mb.Email, mb.Balance, want[mb.Email])
		}
	}
	if len(summary.SimplifiedTransactions) != 2 {
		t.Errorf("got %d simplified transactions, want 2", len(summary.SimplifiedTransactions))
	}
	if summary.TotalExpenses != 120.0 {
		t.Errorf("total expenses = %.2f, want 120.00", summary.TotalExpenses)
	}
}

func TestSettlementValidationOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	token, groupID := createTestGroup(t, router)

	doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/expenses", groupID), token, expenseRequest{
		Description: "Cabin",
		Amount:      120.0,
		PayerEmail:  "alice@example.com",
	})

	// Self-payment is rejected with a structured code.
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/settlements", groupID), token, settlementRequest{
		PayerEmail: "bob@example.com",
		PayeeEmail: "bob@example.com",
		Amount:     10.0,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("self-payment returned %d, want 422", rec.Code)
	}
	var rejection map[string]string
	decodeBody(t, rec, &rejection)
	if rejection["code"] == "" {
		t.Error("expected a rejection code in the response")
	}

	// A valid settlement is recorded and moves the balances.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/settlements", groupID), token, settlementRequest{
		PayerEmail: "bob@example.com",
		PayeeEmail: "alice@example.com",
		Amount:     40.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("settlement returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/groups/%s/balances", groupID), token, nil)
	var summary balanceSummaryResponse
	decodeBody(t, rec, &summary)
	for _, mb := range summary.PerMember {
		if mb.Email == "bob@example.com" {
			if math.Abs(mb.Balance) > 0.001 {
				t.Errorf("bob balance = %.2f, want 0 after settling", mb.Balance)
			}
			if mb.Status != "settled" {
				t.Errorf("bob status = %q, want settled", mb.Status)
			}
		}
	}
}

func TestSimulateBalances(t *testing.T) {
	router := newTestRouter(t)
	token, groupID := createTestGroup(t, router)

	doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/expenses", groupID), token, expenseRequest{
		Description: "Cabin",
		Amount:      120.0,
		PayerEmail:  "alice@example.com",
	})

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/groups/%s/balances/simulate", groupID), token, simulateRequest{
		Settlements: []settlementRequest{
			{PayerEmail: "bob@example.com", PayeeEmail: "alice@example.com", Amount: 40.0},
			{PayerEmail: "charlie@example.com", PayeeEmail: "alice@example.com", Amount: 40.0},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("simulate returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp whatIfResponse
	decodeBody(t, rec, &resp)
	if resp.RemainingNonZero != 0 {
		t.Errorf("remaining non-zero = %d, want 0", resp.RemainingNonZero)
	}

	// Nothing was persisted.
	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/groups/%s/settlements", groupID), token, nil)
	var list struct {
		Settlements []settlementResponse `json:"settlements"`
	}
	decodeBody(t, rec, &list)
	if len(list.Settlements) != 0 {
		t.Errorf("got %d persisted settlements, want 0", len(list.Settlements))
	}
}

func TestGroupNotFound(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "alice@example.com", "Alice")

	rec := doJSON(t, router, http.MethodGet, "/api/v1/groups/no-such-group/balances", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
