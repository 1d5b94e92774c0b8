package client

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
)

// OrderClient talks to the order service
type OrderClient struct {
	*Client
}

func NewOrderClient(opts Options, logger *zap.Logger) *OrderClient {
	return &OrderClient{Client: newClient("order", opts, false, logger)}
}

func (c *OrderClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if _, err := c.call(ctx, http.MethodGet, "/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// PlaceOrder creates one order and returns the service's confirmation text
func (c *OrderClient) PlaceOrder(ctx context.Context, req domain.OrderRequest) (string, error) {
	body, err := c.call(ctx, http.MethodPost, "/orders", nil, req, nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}
