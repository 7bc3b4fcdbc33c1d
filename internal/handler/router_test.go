package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/handler"
	"github.com/khata-app/khata-bff/internal/infra/cache"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/service"
)

// --- Fakes ---

type fakeStore struct{}

func (fakeStore) ListShops(_ context.Context) ([]domain.Shop, error) {
	return []domain.Shop{{ID: "shop1", Name: "Prakash"}, {ID: "shop2", Name: "Vikash"}}, nil
}

func (fakeStore) GetShop(_ context.Context, shopID string) (*domain.Shop, error) {
	if shopID != "shop1" {
		return nil, &domain.ErrNotFound{Resource: "shop", ID: shopID}
	}
	return &domain.Shop{ID: "shop1", Name: "Prakash"}, nil
}

func (fakeStore) ListCustomers(_ context.Context, _ string) ([]domain.Customer, error) {
	return []domain.Customer{{ID: "c1", Name: "Ramesh", Balance: 125.5}}, nil
}

func (fakeStore) SearchCustomers(_ context.Context, _, _ string) ([]domain.Customer, error) {
	return []domain.Customer{{ID: "c1", Name: "Ramesh", Balance: 125.5}}, nil
}

func (fakeStore) GetCustomer(_ context.Context, _, customerID string) (*domain.Customer, error) {
	if customerID != "c1" {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: customerID}
	}
	return &domain.Customer{ID: "c1", Name: "Ramesh", Balance: 125.5}, nil
}

func (fakeStore) CreateCustomer(_ context.Context, _ string, in domain.CustomerInput) (*domain.Customer, error) {
	return &domain.Customer{ID: "c2", Name: in.Name, Phone: in.Phone}, nil
}

func (fakeStore) ListTransactions(_ context.Context, _, _ string) ([]domain.Transaction, error) {
	return []domain.Transaction{{ID: "t1", Amount: 100, Type: domain.TransactionDebit}}, nil
}

func (fakeStore) CreateTransaction(_ context.Context, _, _ string, in domain.TransactionInput) (*domain.Transaction, error) {
	return &domain.Transaction{ID: "t2", Amount: 100, Type: in.Type}, nil
}

type fakeChecker struct {
	match bool
}

func (f fakeChecker) CheckPassword(_ context.Context, _ string) (bool, error) { return f.match, nil }
func (f fakeChecker) ChangePassword(_ context.Context, _, _ string) error     { return nil }

const ownerEmail = "prakashowner@gmail.com"

func newTestRouter(t *testing.T) (http.Handler, *service.Gate) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := fakeStore{}

	ledger := service.NewLedger(store, cache.New[[]domain.Shop](time.Minute), metrics, logger)
	search := service.NewSearch(store, 0, metrics, logger)
	gate := service.NewGate(fakeChecker{match: true}, service.GateConfig{OwnerEmail: ownerEmail}, metrics, logger)

	router := handler.NewRouter(ledger, search, gate, metrics, logger, handler.RouterConfig{
		AllowedOrigins: []string{"*"},
	})
	return router, gate
}

func doRequest(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- Tests ---

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doRequest(router, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestShopsRequireSession(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/v1/shops", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp struct {
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Redirect != "/unauthorized" {
		t.Errorf("expected unauthorized redirect hint, got %q", resp.Redirect)
	}
}

func TestLoginThenListShops(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(router, http.MethodGet, "/v1/shops", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shops: expected 200, got %d", rec.Code)
	}
	var shops []domain.Shop
	if err := json.Unmarshal(rec.Body.Bytes(), &shops); err != nil {
		t.Fatal(err)
	}
	if len(shops) != 2 || shops[0].Name != "Prakash" {
		t.Errorf("unexpected shops payload: %+v", shops)
	}
}

func TestLoginWrongEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    "stranger@example.com",
		Password: "owner000",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router, gate := newTestRouter(t)

	doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})
	if !gate.IsAuthenticated() {
		t.Fatal("expected authenticated session")
	}

	rec := doRequest(router, http.MethodPost, "/v1/session/logout", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gate.IsAuthenticated() {
		t.Error("expected logout to clear session")
	}

	rec = doRequest(router, http.MethodGet, "/v1/shops", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestCreateCustomerValidation(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})

	rec := doRequest(router, http.MethodPost, "/v1/shops/shop1/customers", domain.CustomerInput{
		Name:  "Suresh",
		Phone: "12345",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Field string `json:"field"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Field != "phone" {
		t.Errorf("expected phone field in error, got %q", resp.Field)
	}
}

func TestCreateCustomer(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})

	rec := doRequest(router, http.MethodPost, "/v1/shops/shop1/customers", domain.CustomerInput{
		Name:  "Suresh",
		Phone: "9876543210",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestGetCustomerNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})

	rec := doRequest(router, http.MethodGet, "/v1/shops/shop1/customers/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSearchCustomers(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/v1/session/login", domain.LoginRequest{
		Email:    ownerEmail,
		Password: "owner000",
	})

	rec := doRequest(router, http.MethodGet, "/v1/shops/shop1/customers/search?query=Ram", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var customers []domain.CustomerView
	if err := json.Unmarshal(rec.Body.Bytes(), &customers); err != nil {
		t.Fatal(err)
	}
	if len(customers) != 1 || customers[0].DisplayBalance != "₹125.50 due" {
		t.Errorf("unexpected search payload: %+v", customers)
	}
}

func TestMetricsSummary(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doRequest(router, http.MethodGet, "/v1/metrics/summary", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var summary domain.MetricsSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
}
