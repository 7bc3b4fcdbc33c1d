package upstream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/khata-app/khata-bff/internal/domain"
)

// ListShops fetches the fixed shop partitions.
func (c *Client) ListShops(ctx context.Context) ([]domain.Shop, error) {
	ctx, span := tracer.Start(ctx, "upstream.ListShops")
	defer span.End()

	var raw []wireShop
	if err := c.call(ctx, "list_shops", http.MethodGet, "shops", nil, &raw, nil); err != nil {
		return nil, err
	}

	shops := make([]domain.Shop, 0, len(raw))
	for _, w := range raw {
		shops = append(shops, w.toDomain())
	}
	return shops, nil
}

// GetShop fetches a single shop by id.
func (c *Client) GetShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	ctx, span := tracer.Start(ctx, "upstream.GetShop")
	defer span.End()

	var raw wireShop
	path := fmt.Sprintf("shops/%s", shopID)
	err := c.call(ctx, "get_shop", http.MethodGet, path, nil, &raw, func() *domain.ErrNotFound {
		return &domain.ErrNotFound{Resource: "shop", ID: shopID}
	})
	if err != nil {
		return nil, err
	}
	shop := raw.toDomain()
	return &shop, nil
}
