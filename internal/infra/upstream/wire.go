package upstream

import (
	"time"

	"github.com/khata-app/khata-bff/internal/domain"
)

// Wire representations of the ledger API payloads. The backend is a
// Mongo-backed service, hence the _id fields.

type wireShop struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type wireCustomer struct {
	ID        string  `json:"_id"`
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Balance   float64 `json:"balance"`
	CreatedAt string  `json:"createdAt"`
}

type wireTransaction struct {
	ID          string  `json:"_id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	CreatedAt   string  `json:"createdAt"`
}

// parseTime accepts the two formats the backend emits: full RFC 3339
// timestamps and bare calendar dates.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

func (w wireShop) toDomain() domain.Shop {
	return domain.Shop{ID: w.ID, Name: w.Name}
}

func (w wireCustomer) toDomain() domain.Customer {
	return domain.Customer{
		ID:        w.ID,
		Name:      w.Name,
		Phone:     w.Phone,
		Balance:   w.Balance,
		CreatedAt: parseTime(w.CreatedAt),
	}
}

func (w wireTransaction) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:          w.ID,
		Amount:      w.Amount,
		Type:        domain.TransactionType(w.Type),
		Description: w.Description,
		Date:        parseTime(w.Date),
		CreatedAt:   parseTime(w.CreatedAt),
	}
}
