package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// InventoryClient reads stock levels from the inventory service
type InventoryClient struct {
	*Client
}

func NewInventoryClient(opts Options, logger *zap.Logger) *InventoryClient {
	return &InventoryClient{Client: newClient("inventory", opts, false, logger)}
}

// StockLevel handles GET /inventory/{skuCode}
func (c *InventoryClient) StockLevel(ctx context.Context, skuCode string) (int, error) {
	var quantity int
	if _, err := c.call(ctx, http.MethodGet, "/inventory/{skuCode}", map[string]string{"skuCode": skuCode}, nil, &quantity); err != nil {
		return 0, err
	}
	return quantity, nil
}
