package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/operations_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetDeltas computes the signed balance change per account when previous is
// replaced by current. The effect of previous is reversed first, then the
// effect of current is applied. Either side may be nil (create or delete).
// Accounts whose deltas cancel out stay in the map with a zero value so callers
// still lock and verify them.
func NetDeltas(previous, current *domain.Operation) map[string]decimal.Decimal {
	deltas := make(map[string]decimal.Decimal, 4)
	if previous != nil {
		for accountID, effect := range previous.BalanceEffects() {
			deltas[accountID] = deltas[accountID].Sub(effect)
		}
	}
	if current != nil {
		for accountID, effect := range current.BalanceEffects() {
			deltas[accountID] = deltas[accountID].Add(effect)
		}
	}
	return deltas
}

// SortedAccountIDs returns the accounts of a delta map in ascending id order,
// the order in which rows must be locked.
func SortedAccountIDs(deltas map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ApplyDeltas returns the new balances of the given accounts. Every account in
// deltas must be present in accounts.
func ApplyDeltas(accounts map[string]domain.Account, deltas map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	balances := make(map[string]decimal.Decimal, len(deltas))
	for _, id := range SortedAccountIDs(deltas) {
		acc, ok := accounts[id]
		if !ok {
			return nil, fmt.Errorf("account %s not found", id)
		}
		balances[id] = acc.Balance.Add(deltas[id])
	}
	return balances, nil
}

// SumBalanceEffects folds the effects of many operations, used to check that
// stored balances equal opening balances plus the ledger.
func SumBalanceEffects(ops []domain.Operation) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, op := range ops {
		for accountID, effect := range op.BalanceEffects() {
			totals[accountID] = totals[accountID].Add(effect)
		}
	}
	return totals
}
