package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/infra/cache"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/service"
)

type mockStore struct {
	shops        []domain.Shop
	customers    []domain.Customer
	customer     *domain.Customer
	transactions []domain.Transaction
	err          error

	listShopsCalls int
	createdTx      *domain.TransactionInput
	createdCust    *domain.CustomerInput
}

func (m *mockStore) ListShops(_ context.Context) ([]domain.Shop, error) {
	m.listShopsCalls++
	return m.shops, m.err
}

func (m *mockStore) GetShop(_ context.Context, _ string) (*domain.Shop, error) {
	if len(m.shops) == 0 {
		return nil, m.err
	}
	return &m.shops[0], m.err
}

func (m *mockStore) ListCustomers(_ context.Context, _ string) ([]domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockStore) SearchCustomers(_ context.Context, _, _ string) ([]domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockStore) GetCustomer(_ context.Context, _, _ string) (*domain.Customer, error) {
	return m.customer, m.err
}

func (m *mockStore) CreateCustomer(_ context.Context, _ string, in domain.CustomerInput) (*domain.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.createdCust = &in
	return &domain.Customer{ID: "new-cust", Name: in.Name, Phone: in.Phone}, nil
}

func (m *mockStore) ListTransactions(_ context.Context, _, _ string) ([]domain.Transaction, error) {
	return m.transactions, m.err
}

func (m *mockStore) CreateTransaction(_ context.Context, _, _ string, in domain.TransactionInput) (*domain.Transaction, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.createdTx = &in
	return &domain.Transaction{ID: "new-tx", Amount: 100, Type: in.Type, Description: in.Description}, nil
}

func newLedger(store *mockStore) *service.Ledger {
	return service.NewLedger(store, cache.New[[]domain.Shop](5*time.Minute),
		observability.NewMetrics(), zap.NewNop())
}

func TestGetShops_CachesList(t *testing.T) {
	store := &mockStore{shops: []domain.Shop{
		{ID: "shop1", Name: "Prakash"},
		{ID: "shop2", Name: "Vikash"},
	}}
	svc := newLedger(store)

	for i := 0; i < 3; i++ {
		shops, err := svc.GetShops(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(shops) != 2 {
			t.Fatalf("expected 2 shops, got %d", len(shops))
		}
	}
	if store.listShopsCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", store.listShopsCalls)
	}
}

func TestGetShopStats_Aggregates(t *testing.T) {
	store := &mockStore{customers: []domain.Customer{
		{ID: "c1", Balance: 100},
		{ID: "c2", Balance: -40},
		{ID: "c3", Balance: 0},
	}}
	svc := newLedger(store)

	stats, err := svc.GetShopStats(context.Background(), "shop1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalCustomers != 3 {
		t.Errorf("expected 3 customers, got %d", stats.TotalCustomers)
	}
	if stats.TotalDue != 100 {
		t.Errorf("expected total due 100, got %v", stats.TotalDue)
	}
	if stats.TotalCredit != 40 {
		t.Errorf("expected total credit 40, got %v", stats.TotalCredit)
	}
}

func TestGetCustomerDetail_CombinesFetches(t *testing.T) {
	store := &mockStore{
		customer: &domain.Customer{ID: "c1", Name: "Ramesh", Balance: 125.5},
		transactions: []domain.Transaction{
			{ID: "t1", Amount: 100, Type: domain.TransactionDebit},
			{ID: "t2", Amount: 50, Type: domain.TransactionCredit},
		},
	}
	svc := newLedger(store)

	detail, err := svc.GetCustomerDetail(context.Background(), "shop1", "c1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.Customer.DisplayBalance != "₹125.50 due" {
		t.Errorf("unexpected display balance %q", detail.Customer.DisplayBalance)
	}
	if len(detail.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(detail.Transactions))
	}
	if detail.Transactions[0].Label != "Money Lent" || detail.Transactions[0].Direction != "out" {
		t.Errorf("unexpected debit classification: %+v", detail.Transactions[0])
	}
	if detail.Transactions[1].Label != "Payment Received" || detail.Transactions[1].Direction != "in" {
		t.Errorf("unexpected credit classification: %+v", detail.Transactions[1])
	}
}

func TestCreateCustomer_RejectsInvalidInputBeforeUpstream(t *testing.T) {
	store := &mockStore{}
	svc := newLedger(store)

	_, err := svc.CreateCustomer(context.Background(), "shop1", domain.CustomerInput{Phone: "9876543210"})
	var required *domain.ErrRequiredField
	if !errors.As(err, &required) || required.Field != "name" {
		t.Fatalf("expected required name, got %v", err)
	}
	if store.createdCust != nil {
		t.Error("expected no upstream call on invalid input")
	}
}

func TestCreateCustomer_Success(t *testing.T) {
	store := &mockStore{}
	svc := newLedger(store)

	view, err := svc.CreateCustomer(context.Background(), "shop1", domain.CustomerInput{
		Name:  "Ramesh",
		Phone: "9876543210",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.ID != "new-cust" {
		t.Errorf("expected backend-assigned id, got %q", view.ID)
	}
	if view.DisplayBalance != "₹0.00 credit" {
		t.Errorf("expected fresh customer to render as credit, got %q", view.DisplayBalance)
	}
}

func TestCreateTransaction_RejectsInvalidAmountBeforeUpstream(t *testing.T) {
	store := &mockStore{}
	svc := newLedger(store)

	_, err := svc.CreateTransaction(context.Background(), "shop1", "c1", domain.TransactionInput{
		Type:        domain.TransactionDebit,
		Amount:      "-5",
		Description: "Groceries",
		Date:        "2023-06-15",
	})
	var format *domain.ErrFormat
	if !errors.As(err, &format) {
		t.Fatalf("expected ErrFormat for negative amount, got %v", err)
	}
	if store.createdTx != nil {
		t.Error("expected no upstream call on invalid input")
	}
}

func TestCreateTransaction_Success(t *testing.T) {
	store := &mockStore{}
	svc := newLedger(store)

	view, err := svc.CreateTransaction(context.Background(), "shop1", "c1", domain.TransactionInput{
		Type:        domain.TransactionDebit,
		Amount:      "100",
		Description: "Groceries",
		Date:        "2023-06-15",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if view.Label != "Money Lent" || view.Direction != "out" {
		t.Errorf("unexpected classification: %+v", view)
	}
}

func TestGetCustomers_RemoteFailure(t *testing.T) {
	store := &mockStore{err: &domain.ErrRemote{Operation: "list_customers", Err: errors.New("boom")}}
	svc := newLedger(store)

	_, err := svc.GetCustomers(context.Background(), "shop1")
	var remote *domain.ErrRemote
	if !errors.As(err, &remote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}
