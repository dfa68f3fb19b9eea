package budget

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Budget is the account-state record of a single user.
// TotalBalance always equals Cash + Investments.
type Budget struct {
	UserID          string          `json:"userId"`
	Cash            decimal.Decimal `json:"cash"`
	Investments     decimal.Decimal `json:"investments"`
	TotalBalance    decimal.Decimal `json:"totalBalance"`
	ActivePositions int             `json:"activePositions"`
	Version         int64           `json:"version"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// New creates a budget from a fixed snapshot. Any total carried by the snapshot is ignored.
func New(userID string, cash, investments decimal.Decimal, activePositions int) Budget {
	b := Budget{
		UserID:          userID,
		Cash:            cash,
		Investments:     investments,
		ActivePositions: max(activePositions, 0),
		Version:         1,
		UpdatedAt:       time.Now().UTC(),
	}
	b.recompute()
	return b
}

// RequireFunds fails with InsufficientFundsError when amount exceeds the available cash.
func (b Budget) RequireFunds(amount decimal.Decimal) error {
	if amount.GreaterThan(b.Cash) {
		return InsufficientFundsError{Required: amount, Available: b.Cash}
	}
	return nil
}

// Invest moves value from cash into investments.
func (b *Budget) Invest(value decimal.Decimal) {
	b.Cash = b.Cash.Sub(value)
	b.Investments = b.Investments.Add(value)
	b.recompute()
}

// Divest moves value from investments back into cash. Investments may go negative.
func (b *Budget) Divest(value decimal.Decimal) {
	b.Cash = b.Cash.Add(value)
	b.Investments = b.Investments.Sub(value)
	b.recompute()
}

func (b *Budget) Deposit(amount decimal.Decimal) {
	b.Cash = b.Cash.Add(amount)
	b.recompute()
}

func (b *Budget) Withdraw(amount decimal.Decimal) {
	b.Cash = b.Cash.Sub(amount)
	b.recompute()
}

func (b *Budget) OpenPosition() {
	b.ActivePositions++
}

// ClosePosition decrements the position count, never below zero.
func (b *Budget) ClosePosition() {
	if b.ActivePositions > 0 {
		b.ActivePositions--
	}
}

// Stamp marks the budget as a new version.
func (b *Budget) Stamp(now time.Time) {
	b.recompute()
	b.Version++
	b.UpdatedAt = now
}

// Consistent reports whether the balance invariants hold.
func (b Budget) Consistent() bool {
	return b.TotalBalance.Equal(b.Cash.Add(b.Investments)) && b.ActivePositions >= 0
}

func (b *Budget) recompute() {
	b.TotalBalance = b.Cash.Add(b.Investments)
}

// InsufficientFundsError reports a money outflow larger than the available cash.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %s, available %s", e.Required.String(), e.Available.String())
}

// Is implements the errors.Is interface for InsufficientFundsError
func (e InsufficientFundsError) Is(target error) bool {
	_, ok := target.(InsufficientFundsError)
	return ok
}
