// services/quota.go - free-tier monthly quota gate
package services

import "carabin/models"

// FreeMonthlyLimit is the number of quota-consuming actions a FREE account
// gets per calendar month.
const FreeMonthlyLimit = 3

// Gate decides whether a quota-consuming action is permitted and records
// consumption. Callers check first, perform the gated operation, then
// consume; the two calls are not atomic across the external call, which is
// accepted (single-user, single-session usage pattern).
type Gate struct {
	ledger *Ledger
}

func NewGate(ledger *Ledger) *Gate {
	return &Gate{ledger: ledger}
}

// CanPerformAction reports whether the account may run a gated action.
// PREMIUM always passes. FREE accounts get the lazy reset check first so a
// long-lived session is not denied purely because the counter predates a
// month rollover.
func (g *Gate) CanPerformAction(acct *models.Account) (bool, error) {
	if acct.SubscriptionStatus == models.SubscriptionPremium {
		return true, nil
	}
	acct, err := g.ledger.CheckAndResetUsage(acct)
	if err != nil {
		return false, err
	}
	return acct.UsageCount < FreeMonthlyLimit, nil
}

// ConsumeAction records one consumed action. The increment is unconditional
// for FREE accounts; the cap is enforced only by the CanPerformAction check.
func (g *Gate) ConsumeAction(acct *models.Account) (*models.Account, error) {
	if acct.SubscriptionStatus == models.SubscriptionPremium {
		return acct, nil
	}
	acct, err := g.ledger.CheckAndResetUsage(acct)
	if err != nil {
		return nil, err
	}
	acct.UsageCount++
	return g.ledger.Save(acct)
}
