package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/khata-app/khata-bff/internal/domain"
)

// ListTransactions fetches a customer's full transaction history.
func (c *Client) ListTransactions(ctx context.Context, shopID, customerID string) ([]domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "upstream.ListTransactions")
	defer span.End()

	var raw []wireTransaction
	path := fmt.Sprintf("shops/%s/customers/%s/transactions", shopID, customerID)
	err := c.call(ctx, "list_transactions", http.MethodGet, path, nil, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "customer", ID: customerID}
	})
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(raw))
	for _, w := range raw {
		txs = append(txs, w.toDomain())
	}
	return txs, nil
}

// CreateTransaction records a ledger entry. The backend updates the
// customer's balance as a side effect; the updated balance is observed
// on the next customer fetch, never computed here.
func (c *Client) CreateTransaction(ctx context.Context, shopID, customerID string, in domain.TransactionInput) (*domain.Transaction, error) {
	ctx, span := tracer.Start(ctx, "upstream.CreateTransaction")
	defer span.End()

	amount, err := strconv.ParseFloat(in.Amount, 64)
	if err != nil {
		return nil, &domain.ErrFormat{Field: "amount", Message: "Amount must be a valid number"}
	}

	payload := struct {
		Type        string  `json:"type"`
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
		Date        string  `json:"date"`
	}{
		Type:        string(in.Type),
		Amount:      amount,
		Description: in.Description,
		Date:        in.Date,
	}

	var raw wireTransaction
	path := fmt.Sprintf("shops/%s/customers/%s/transactions", shopID, customerID)
	callErr := c.call(ctx, "create_transaction", http.MethodPost, path, payload, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "customer", ID: customerID}
	})
	if callErr != nil {
		return nil, callErr
	}
	tx := raw.toDomain()
	return &tx, nil
}
