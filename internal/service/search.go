package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khata-app/khata-bff/internal/domain"
	"github.com/khata-app/khata-bff/internal/infra/observability"
	"github.com/khata-app/khata-bff/internal/port"
)

// Search serializes customer searches per shop. Each request claims a
// generation token; issuing a new search for the same shop cancels the
// previous one and invalidates its result, so only the latest query
// can ever be answered regardless of how upstream latencies interleave.
type Search struct {
	searcher port.CustomerSearcher
	// quiet is how long a search waits before hitting the backend,
	// giving a fast typist's next keystroke a chance to supersede it
	// without any upstream traffic.
	quiet   time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger

	mu     sync.Mutex
	states map[string]*searchState
}

type searchState struct {
	generation uint64
	cancel     context.CancelFunc
}

// NewSearch creates the search dispatcher.
func NewSearch(searcher port.CustomerSearcher, quiet time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Search {
	return &Search{
		searcher: searcher,
		quiet:    quiet,
		metrics:  metrics,
		logger:   logger,
		states:   make(map[string]*searchState),
	}
}

// claim registers a new search for shopID, cancelling any in-flight
// predecessor, and returns the generation token plus a context that
// dies when a successor arrives.
func (s *Search) claim(ctx context.Context, shopID string) (uint64, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[shopID]
	if !ok {
		st = &searchState{}
		s.states[shopID] = st
	}
	if st.cancel != nil {
		st.cancel()
	}
	st.generation++

	searchCtx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	return st.generation, searchCtx
}

// current reports whether gen is still the latest generation for shopID.
func (s *Search) current(shopID string, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[shopID]
	return ok && st.generation == gen
}

// Search resolves query against shopID's customers. A blank query
// returns the full customer list. Returns *domain.ErrSuperseded when a
// newer search for the same shop arrived at any point, including while
// this one was waiting out the quiet period or already decoding its
// response.
func (s *Search) Search(ctx context.Context, shopID, query string) ([]domain.CustomerView, error) {
	ctx, span := tracer.Start(ctx, "Search.Search")
	defer span.End()
	span.SetAttributes(attribute.String("shop.id", shopID))

	gen, searchCtx := s.claim(ctx, shopID)

	if s.quiet > 0 {
		select {
		case <-searchCtx.Done():
			s.metrics.IncrSearchSuperseded()
			return nil, &domain.ErrSuperseded{ShopID: shopID}
		case <-time.After(s.quiet):
		}
	}

	query = strings.TrimSpace(query)
	var (
		customers []domain.Customer
		err       error
	)
	if query == "" {
		customers, err = s.searcher.ListCustomers(searchCtx, shopID)
	} else {
		customers, err = s.searcher.SearchCustomers(searchCtx, shopID, query)
	}

	// A result for a superseded generation is dropped even if the
	// fetch finished cleanly.
	if !s.current(shopID, gen) {
		s.metrics.IncrSearchSuperseded()
		s.logger.Debug("search superseded",
			zap.String("shop_id", shopID),
			zap.Uint64("generation", gen),
		)
		return nil, &domain.ErrSuperseded{ShopID: shopID}
	}
	if err != nil {
		return nil, err
	}

	views := make([]domain.CustomerView, 0, len(customers))
	for _, c := range customers {
		views = append(views, domain.NewCustomerView(c))
	}
	return views, nil
}
