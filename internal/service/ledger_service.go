package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/splitledger/splitledger/internal/ledger"
	"github.com/splitledger/splitledger/internal/metrics"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// MemberBalance is one member's position in a balance summary, enriched with
// the display name for presentation.
type MemberBalance struct {
	Email       string
	DisplayName string
	AccountID   string
	Balance     float64
	TotalPaid   float64
	TotalOwed   float64
	Status      ledger.BalanceStatus
}

// SettleUpPayment is one suggested payment from the debt simplifier.
type SettleUpPayment struct {
	FromEmail string
	FromName  string
	ToEmail   string
	ToName    string
	Amount    float64
	Currency  string
}

// BalanceSummary is the full balance report for a group: per-member entries,
// the simplified settle-up plan, and history totals. It is computed from the
// complete expense/settlement history on every call and never persisted.
type BalanceSummary struct {
	PerMember              []MemberBalance
	SimplifiedTransactions []SettleUpPayment
	TotalExpenses          float64
	TotalSettlements       float64
	Currency               string

	// Warning is set when the ledger did not net to zero. Informational:
	// the summary is still served.
	Warning string
}

// ProjectedBalance is one member's balance after a what-if simulation.
type ProjectedBalance struct {
	Email       string
	DisplayName string
	Balance     float64
}

// WhatIfResult reports the projected group state after applying hypothetical
// settlements to the current balances, without recording anything.
type WhatIfResult struct {
	Projected        []ProjectedBalance
	RemainingNonZero int
}

// LedgerService implements expense and settlement recording and the balance
// reports built from them.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store, m *metrics.Metrics, logger *slog.Logger) *LedgerService {
	return &LedgerService{store: store, metrics: m, logger: logger}
}

// CreateExpense records a new expense after checking it folds cleanly into
// the group's ledger. An expense without splits is divided equally among all
// group members (the last member absorbing any rounding remainder).
func (s *LedgerService) CreateExpense(ctx context.Context, groupID string, expense *models.Expense) (*models.Expense, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if expense.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	if expense.Currency == "" {
		expense.Currency = group.Currency
	}
	if expense.Currency != group.Currency {
		return nil, fmt.Errorf("%w: currency %q does not match group currency %q",
			ErrInvalidInput, expense.Currency, group.Currency)
	}

	if len(expense.Splits) == 0 {
		for _, split := range ledger.EqualSplits(expense.Amount, group.MemberIdentities()) {
			expense.Splits = append(expense.Splits, models.ExpenseSplit{
				MemberEmail: split.Member.Email,
				Share:       split.Share,
			})
		}
	}

	// Fold the single expense against an empty ledger to run the full
	// integrity check (membership, duplicates, split reconciliation).
	if _, err := ledger.Aggregate(group.MemberIdentities(), []ledger.Expense{expense.ToLedger()}, nil); err != nil {
		s.logger.Warn("expense rejected", "group_id", groupID, "error", err)
		return nil, err
	}

	expense.GroupID = group.ID
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("create expense failed", "group_id", groupID, "error", err)
		return nil, err
	}

	s.metrics.ExpensesCreated.Inc()
	s.logger.Info("expense created", "group_id", groupID, "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// ListExpenses retrieves a group's expenses, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByGroup(ctx, groupID)
}

// DeleteExpense removes an expense from a group's history.
func (s *LedgerService) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.GroupID != groupID {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return s.store.DeleteExpense(ctx, expenseID)
}

// RecordSettlement validates a proposed settlement against the group's
// current state and persists it if accepted. A rejection is a normal result
// carrying the user-facing reason, not an error.
func (s *LedgerService) RecordSettlement(ctx context.Context, groupID string, settlement *models.Settlement) (ledger.ValidationResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return ledger.ValidationResult{}, err
	}

	if settlement.Currency == "" {
		settlement.Currency = group.Currency
	}

	balances, err := s.currentBalances(ctx, group)
	if err != nil {
		return ledger.ValidationResult{}, err
	}

	result := ledger.ValidateSettlement(
		settlement.ToLedger(),
		group.MemberIdentities(),
		[]string{group.Currency},
		balances,
	)
	if !result.OK {
		s.metrics.SettlementsRejected.WithLabelValues(result.Code).Inc()
		s.logger.Info("settlement rejected",
			"group_id", groupID, "code", result.Code, "reason", result.Reason)
		return result, nil
	}

	settlement.GroupID = group.ID
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("create settlement failed", "group_id", groupID, "error", err)
		return ledger.ValidationResult{}, err
	}

	s.metrics.SettlementsCreated.Inc()
	s.logger.Info("settlement recorded",
		"group_id", groupID, "settlement_id", settlement.ID, "amount", settlement.Amount)
	return result, nil
}

// ListSettlements retrieves a group's settlements, newest first.
func (s *LedgerService) ListSettlements(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	return s.store.ListSettlementsByGroup(ctx, groupID)
}

// DeleteSettlement removes a settlement from a group's history.
func (s *LedgerService) DeleteSettlement(ctx context.Context, groupID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	if settlement.GroupID != groupID {
		return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
	}
	return s.store.DeleteSettlement(ctx, settlementID)
}

// BalanceSummaryFor recomputes a group's balances from its full history and
// derives the simplified settle-up plan.
func (s *LedgerService) BalanceSummaryFor(ctx context.Context, groupID string) (*BalanceSummary, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	expenses, settlements, err := s.history(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	balances, err := ledger.Aggregate(group.MemberIdentities(), toLedgerExpenses(expenses), toLedgerSettlements(settlements))
	if err != nil {
		return nil, err
	}

	entries := orderedEntries(group, balances)
	transactions, warning := ledger.Simplify(entries, group.Currency)
	s.metrics.ObserveBalanceCompute(time.Since(start))

	summary := &BalanceSummary{
		Currency: group.Currency,
	}
	names := displayNames(group)
	for _, entry := range entries {
		summary.PerMember = append(summary.PerMember, MemberBalance{
			Email:       entry.Member.Email,
			DisplayName: names[entry.Member.Key()],
			AccountID:   entry.Member.AccountID,
			Balance:     entry.Balance,
			TotalPaid:   entry.TotalPaid,
			TotalOwed:   entry.TotalOwed,
			Status:      entry.Status(),
		})
	}
	for _, tx := range transactions {
		summary.SimplifiedTransactions = append(summary.SimplifiedTransactions, SettleUpPayment{
			FromEmail: tx.From.Email,
			FromName:  names[tx.From.Key()],
			ToEmail:   tx.To.Email,
			ToName:    names[tx.To.Key()],
			Amount:    tx.Amount,
			Currency:  tx.Currency,
		})
	}
	for _, expense := range expenses {
		summary.TotalExpenses += expense.Amount
	}
	for _, settlement := range settlements {
		summary.TotalSettlements += settlement.Amount
	}

	if warning != nil {
		s.metrics.UnbalancedLedgers.Inc()
		s.logger.Warn("unbalanced ledger", "group_id", groupID, "residual", warning.Residual)
		summary.Warning = warning.Error()
	}

	return summary, nil
}

// WhatIf projects the group's balances after applying the proposed
// settlements, without recording anything. Every proposed payer and payee
// must be a group member so the projection and its remaining-debt count
// cover the same people.
func (s *LedgerService) WhatIf(ctx context.Context, groupID string, proposed []*models.Settlement) (*WhatIfResult, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	balances, err := s.currentBalances(ctx, group)
	if err != nil {
		return nil, err
	}

	ledgerProposed := make([]ledger.Settlement, len(proposed))
	for i, settlement := range proposed {
		if _, ok := group.FindMember(settlement.PayerEmail); !ok {
			return nil, fmt.Errorf("%w: payer %q is not a group member", ErrInvalidInput, settlement.PayerEmail)
		}
		if _, ok := group.FindMember(settlement.PayeeEmail); !ok {
			return nil, fmt.Errorf("%w: payee %q is not a group member", ErrInvalidInput, settlement.PayeeEmail)
		}
		ledgerProposed[i] = settlement.ToLedger()
	}
	projected := ledger.Simulate(balances, ledgerProposed)

	names := displayNames(group)
	result := &WhatIfResult{RemainingNonZero: projected.RemainingNonZero}
	for _, member := range group.Members {
		key := member.Identity().Key()
		result.Projected = append(result.Projected, ProjectedBalance{
			Email:       member.Email,
			DisplayName: names[key],
			Balance:     projected.Projected[key],
		})
	}

	return result, nil
}

// currentBalances aggregates the group's full history into a plain balance
// snapshot keyed by normalized email.
func (s *LedgerService) currentBalances(ctx context.Context, group *models.Group) (map[string]float64, error) {
	expenses, settlements, err := s.history(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	entries, err := ledger.Aggregate(group.MemberIdentities(), toLedgerExpenses(expenses), toLedgerSettlements(settlements))
	if err != nil {
		return nil, err
	}

	balances := make(map[string]float64, len(entries))
	for key, entry := range entries {
		balances[key] = entry.Balance
	}
	return balances, nil
}

func (s *LedgerService) history(ctx context.Context, groupID string) ([]*models.Expense, []*models.Settlement, error) {
	expenses, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	return expenses, settlements, nil
}

func toLedgerExpenses(expenses []*models.Expense) []ledger.Expense {
	out := make([]ledger.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e.ToLedger()
	}
	return out
}

func toLedgerSettlements(settlements []*models.Settlement) []ledger.Settlement {
	out := make([]ledger.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = s.ToLedger()
	}
	return out
}

// orderedEntries flattens the balance map into a slice ordered by member
// email, so summaries and the simplifier see a deterministic order.
func orderedEntries(group *models.Group, balances map[string]*ledger.BalanceEntry) []ledger.BalanceEntry {
	entries := make([]ledger.BalanceEntry, 0, len(balances))
	for _, member := range group.Members {
		if entry, ok := balances[member.Identity().Key()]; ok {
			entries = append(entries, *entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Member.Key() < entries[j].Member.Key()
	})
	return entries
}

func displayNames(group *models.Group) map[string]string {
	names := make(map[string]string, len(group.Members))
	for _, member := range group.Members {
		name := member.DisplayName
		if name == "" {
			name = member.Email
		}
		names[member.Identity().Key()] = name
	}
	return names
}
