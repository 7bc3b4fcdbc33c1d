// Package service contains the application services sitting between the
// HTTP handlers and the upstream ledger API.
package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/port"
)

var tracer = otel.Tracer("service/ledger")

const shopListCacheKey = "shops"

// Ledger orchestrates shop, customer and transaction operations. The
// shop list is the only thing it caches; customer balances are always
// fetched fresh so a recorded transaction is visible on the next read.
type Ledger struct {
	store   port.LedgerStore
	shops   port.Cache[[]domain.Shop]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewLedger creates the ledger service with all dependencies injected.
func NewLedger(store port.LedgerStore, shops port.Cache[[]domain.Shop], metrics *observability.Metrics, logger *zap.Logger) *Ledger {
	return &Ledger{
		store:   store,
		shops:   shops,
		metrics: metrics,
		logger:  logger,
	}
}

// GetShops returns the fixed shop partitions, cached because the set
// never changes at runtime.
func (l *Ledger) GetShops(ctx context.Context) ([]domain.Shop, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetShops")
	defer span.End()

	if cached, ok := l.shops.Get(shopListCacheKey); ok {
		l.metrics.IncrCacheHit("shops")
		return cached, nil
	}
	l.metrics.IncrCacheMiss("shops")

	shops, err := l.store.ListShops(ctx)
	if err != nil {
		return nil, fmt.Errorf("shop list fetch: %w", err)
	}
	l.shops.Set(shopListCacheKey, shops)
	return shops, nil
}

// GetShop returns one shop, served from the cached list when possible.
func (l *Ledger) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetShop")
	defer span.End()

	if cached, ok := l.shops.Get(shopListCacheKey); ok {
		for _, s := range cached {
			if s.ID == shopID {
				l.metrics.IncrCacheHit("shops")
				return &s, nil
			}
		}
	}
	return l.store.GetShop(ctx, shopID)
}

// GetShopStats aggregates a shop's customers into the dashboard stats.
func (l *Ledger) GetShopStats(ctx context.Context, shopID string) (*domain.ShopStats, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetShopStats")
	defer span.End()
	span.SetAttributes(attribute.String("shop.id", shopID))

	start := time.Now()
	defer func() {
		l.metrics.RecordRequestDuration("shop_stats", time.Since(start))
	}()

	customers, err := l.store.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}
	stats := domain.DeriveShopStats(customers)
	return &stats, nil
}

// GetCustomers returns a shop's customers decorated with rendered
// balances.
func (l *Ledger) GetCustomers(ctx context.Context, shopID string) ([]domain.CustomerView, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetCustomers")
	defer span.End()

	customers, err := l.store.ListCustomers(ctx, shopID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, domain.NewCustomerView(c))
	}
	return views, nil
}

// GetCustomerDetail fetches one customer together with its classified
// transaction history. The two upstream calls run concurrently.
func (l *Ledger) GetCustomerDetail(ctx context.Context, shopID, customerID string) (*domain.CustomerDetail, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetCustomerDetail")
	defer span.End()
	span.SetAttributes(
		attribute.String("shop.id", shopID),
		attribute.String("customer.id", customerID),
	)

	start := time.Now()
	defer func() {
		l.metrics.RecordRequestDuration("customer_detail", time.Since(start))
	}()

	var (
		customer     *domain.Customer
		transactions []domain.Transaction
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := l.store.GetCustomer(gCtx, shopID, customerID)
		if err != nil {
			l.logger.Error("failed to fetch customer",
				zap.String("shop_id", shopID),
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
			return err
		}
		customer = c
		return nil
	})

	g.Go(func() error {
		txs, err := l.store.ListTransactions(gCtx, shopID, customerID)
		if err != nil {
			l.logger.Error("failed to fetch transactions",
				zap.String("shop_id", shopID),
				zap.String("customer_id", customerID),
				zap.Error(err),
			)
			return err
		}
		transactions = txs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.CustomerDetail{
		Customer:     domain.NewCustomerView(*customer),
		Transactions: domain.ClassifyAll(transactions),
	}, nil
}

// GetTransactions returns a customer's classified transaction history.
func (l *Ledger) GetTransactions(ctx context.Context, shopID, customerID string) ([]domain.TransactionView, error) {
	ctx, span := tracer.Start(ctx, "Ledger.GetTransactions")
	defer span.End()

	txs, err := l.store.ListTransactions(ctx, shopID, customerID)
	if err != nil {
		return nil, err
	}
	return domain.ClassifyAll(txs), nil
}

// CreateCustomer validates the input locally, then registers the
// customer upstream. No network call happens on invalid input.
func (l *Ledger) CreateCustomer(ctx context.Context, shopID string, in domain.CustomerInput) (*domain.CustomerView, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateCustomer")
	defer span.End()

	if err := domain.ValidateCustomerInput(in); err != nil {
		return nil, err
	}

	customer, err := l.store.CreateCustomer(ctx, shopID, in)
	if err != nil {
		return nil, err
	}
	l.logger.Info("customer created",
		zap.String("shop_id", shopID),
		zap.String("customer_id", customer.ID),
	)
	view := domain.NewCustomerView(*customer)
	return &view, nil
}

// CreateTransaction validates the input locally, then records the
// entry upstream. The customer's balance is updated by the backend
// and observed on the next fetch.
func (l *Ledger) CreateTransaction(ctx context.Context, shopID, customerID string, in domain.TransactionInput) (*domain.TransactionView, error) {
	ctx, span := tracer.Start(ctx, "Ledger.CreateTransaction")
	defer span.End()

	if err := domain.ValidateTransactionInput(in); err != nil {
		return nil, err
	}

	tx, err := l.store.CreateTransaction(ctx, shopID, customerID, in)
	if err != nil {
		return nil, err
	}
	l.logger.Info("transaction recorded",
		zap.String("shop_id", shopID),
		zap.String("customer_id", customerID),
		zap.String("type", string(tx.Type)),
		zap.Float64("amount", tx.Amount),
	)
	view := domain.Classify(*tx)
	return &view, nil
}
