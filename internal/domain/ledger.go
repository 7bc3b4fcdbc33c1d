package domain

import (
	"fmt"
	"math"
)

// CurrencySymbol prefixes all rendered amounts.
const CurrencySymbol = "₹"

// Display labels and directions for the two transaction kinds.
const (
	LabelMoneyLent       = "Money Lent"
	LabelPaymentReceived = "Payment Received"

	DirectionOut = "out" // adverse to shop, rendered red
	DirectionIn  = "in"  // favorable to shop, rendered green
)

// DeriveShopStats recomputes shop-level aggregates from the full
// customer set. Due sums positive balances, credit sums the magnitude
// of negative ones; a zero balance contributes to neither. There is no
// incremental update path: callers pass the current set and get a fresh
// result.
func DeriveShopStats(customers []Customer) ShopStats {
	stats := ShopStats{TotalCustomers: len(customers)}
	for _, c := range customers {
		switch {
		case c.Balance > 0:
			stats.TotalDue += c.Balance
		case c.Balance < 0:
			stats.TotalCredit += math.Abs(c.Balance)
		}
	}
	return stats
}

// Classify decorates a transaction for display. The label and direction
// depend only on the type; the amount is always a positive magnitude
// and is never inspected.
func Classify(t Transaction) TransactionView {
	v := TransactionView{Transaction: t}
	if t.Type == TransactionDebit {
		v.Label = LabelMoneyLent
		v.Direction = DirectionOut
	} else {
		v.Label = LabelPaymentReceived
		v.Direction = DirectionIn
	}
	return v
}

// FormatBalance renders a balance the way the dashboard shows it:
// "₹125.50 due" for positive balances, "₹40.00 credit" otherwise.
// Zero renders as credit — the boundary is balance > 0, not >= 0.
// Amounts are fixed to two decimals; fmt rounds halves away from zero.
func FormatBalance(balance float64) string {
	if balance > 0 {
		return fmt.Sprintf("%s%.2f due", CurrencySymbol, balance)
	}
	return fmt.Sprintf("%s%.2f credit", CurrencySymbol, math.Abs(balance))
}

// NewCustomerView pairs a customer with its rendered balance. The
// balance itself is passed through untouched: the backend is the single
// source of truth and the BFF never recomputes it from transactions.
func NewCustomerView(c Customer) CustomerView {
	return CustomerView{Customer: c, DisplayBalance: FormatBalance(c.Balance)}
}

// ClassifyAll maps Classify over a transaction history.
func ClassifyAll(ts []Transaction) []TransactionView {
	views := make([]TransactionView, 0, len(ts))
	for _, t := range ts {
		views = append(views, Classify(t))
	}
	return views
}
