// Package domain defines the core business entities for the Khata BFF.
// These models are independent of the upstream ledger API and represent
// the canonical data structures used throughout the service.
package domain

import "time"

// TransactionType distinguishes the two ledger entry kinds.
type TransactionType string

const (
	// TransactionDebit records the customer taking money; it increases
	// the customer's balance (the customer owes more).
	TransactionDebit TransactionType = "DEBIT"
	// TransactionCredit records the customer giving money; it decreases
	// the customer's balance (the customer owes less).
	TransactionCredit TransactionType = "CREDIT"
)

// Shop is a fixed partition grouping customers. It carries no state
// beyond identity and a display name.
type Shop struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Customer represents a shop customer with a backend-computed running
// balance. Balance is never derived locally: positive means the customer
// owes the shop ("due"), negative means the shop owes the customer
// ("credit").
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Transaction is an immutable ledger entry against a single customer.
// Amount is always a positive magnitude; the sign is implied by Type.
// Date is the user-selected calendar date, distinct from CreatedAt.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CustomerInput is the payload to create a customer.
type CustomerInput struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TransactionInput is the payload to record a transaction. Amount stays
// a string until validation so blank and malformed inputs can be told
// apart, matching the form semantics.
type TransactionInput struct {
	Type        TransactionType `json:"type"`
	Amount      string          `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
}

// ShopStats aggregates a shop's customer set for the dashboard.
type ShopStats struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalDue       float64 `json:"totalDue"`
	TotalCredit    float64 `json:"totalCredit"`
}

// TransactionView is a transaction decorated for display.
type TransactionView struct {
	Transaction
	Label     string `json:"label"`
	Direction string `json:"direction"` // "out" (adverse to shop) or "in"
}

// CustomerView is a customer decorated with the rendered balance.
type CustomerView struct {
	Customer
	DisplayBalance string `json:"displayBalance"`
}

// CustomerDetail is the customer-page payload: the customer plus its
// classified transaction history.
type CustomerDetail struct {
	Customer     CustomerView      `json:"customer"`
	Transactions []TransactionView `json:"transactions"`
}

// SessionState is returned by the session endpoints.
type SessionState struct {
	Authenticated bool `json:"authenticated"`
}

// LoginRequest is the body for POST /v1/session/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body for POST /v1/session/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MetricsSummary is returned by GET /v1/metrics/summary.
type MetricsSummary struct {
	TotalRequests      int64   `json:"totalRequests"`
	ErrorRate          float64 `json:"errorRate"`
	UpstreamErrors     int64   `json:"upstreamErrors"`
	CacheHitRate       float64 `json:"cacheHitRate"`
	SearchesSuperseded int64   `json:"searchesSuperseded"`
	Period             string  `json:"period"`
}
