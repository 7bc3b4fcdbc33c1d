package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/khata-app/khata-bff/internal/domain"
)

// ListCustomers fetches all customers of a shop.
func (c *Client) ListCustomers(ctx context.Context, shopID string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "upstream.ListCustomers")
	defer span.End()

	var raw []wireCustomer
	path := fmt.Sprintf("shops/%s/customers", shopID)
	err := c.call(ctx, "list_customers", http.MethodGet, path, nil, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "shop", ID: shopID}
	})
	if err != nil {
		return nil, err
	}
	return customersToDomain(raw), nil
}

// SearchCustomers asks the backend for customers matching query. The
// matching semantics (name, phone, prefix vs substring) belong to the
// backend; results are returned as-is.
func (c *Client) SearchCustomers(ctx context.Context, shopID, query string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "upstream.SearchCustomers")
	defer span.End()

	var raw []wireCustomer
	path := fmt.Sprintf("shops/%s/customers/search?query=%s", shopID, url.QueryEscape(query))
	err := c.call(ctx, "search_customers", http.MethodGet, path, nil, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "shop", ID: shopID}
	})
	if err != nil {
		return nil, err
	}
	return customersToDomain(raw), nil
}

// GetCustomer fetches one customer with its current balance.
func (c *Client) GetCustomer(ctx context.Context, shopID, customerID string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "upstream.GetCustomer")
	defer span.End()

	var raw wireCustomer
	path := fmt.Sprintf("shops/%s/customers/%s", shopID, customerID)
	err := c.call(ctx, "get_customer", http.MethodGet, path, nil, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "customer", ID: customerID}
	})
	if err != nil {
		return nil, err
	}
	cust := raw.toDomain()
	return &cust, nil
}

// CreateCustomer registers a new customer and returns the
// backend-assigned entity. Input is validated before this is called.
func (c *Client) CreateCustomer(ctx context.Context, shopID string, in domain.CustomerInput) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "upstream.CreateCustomer")
	defer span.End()

	var raw wireCustomer
	path := fmt.Sprintf("shops/%s/customers", shopID)
	err := c.call(ctx, "create_customer", http.MethodPost, path, in, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "shop", ID: shopID}
	})
	if err != nil {
		return nil, err
	}
	cust := raw.toDomain()
	return &cust, nil
}

func customersToDomain(raw []wireCustomer) []domain.Customer {
	customers := make([]domain.Customer, 0, len(raw))
	for _, w := range raw {
		customers = append(customers, w.toDomain())
	}
	return customers
}
