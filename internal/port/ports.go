// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from the upstream ledger API implementation.
package port

import (
	"context"

	"github.com/khata-app/khata-bff/internal/domain"
)

// LedgerStore is the remote API boundary: all persistence, search and
// balance computation live behind it. Every create returns the
// backend-assigned entity; balances change only as an observable side
// effect of recorded transactions.
type LedgerStore interface {
	ListShops(ctx context.Context) ([]domain.Shop, error)
	GetShop(ctx context.Context, shopID string) (*domain.Shop, error)

	ListCustomers(ctx context.Context, shopID string) ([]domain.Customer, error)
	SearchCustomers(ctx context.Context, shopID, query string) ([]domain.Customer, error)
	GetCustomer(ctx context.Context, shopID, customerID string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, shopID string, in domain.CustomerInput) (*domain.Customer, error)

	ListTransactions(ctx context.Context, shopID, customerID string) ([]domain.Transaction, error)
	CreateTransaction(ctx context.Context, shopID, customerID string, in domain.TransactionInput) (*domain.Transaction, error)
}

// PasswordChecker is the sole credential-check primitive. The email is
// never transmitted: the backend holds a single fixed account.
type PasswordChecker interface {
	CheckPassword(ctx context.Context, password string) (bool, error)
	ChangePassword(ctx context.Context, current, new string) error
}

// CustomerSearcher is the slice of LedgerStore the search dispatcher
// needs. An empty query resolves through ListCustomers so clearing the
// search box supersedes an in-flight search like any other keystroke.
type CustomerSearcher interface {
	ListCustomers(ctx context.Context, shopID string) ([]domain.Customer, error)
	SearchCustomers(ctx context.Context, shopID, query string) ([]domain.Customer, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
