package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
)

// CatalogClient talks to the product service
type CatalogClient struct {
	*Client
}

func NewCatalogClient(opts Options, logger *zap.Logger) *CatalogClient {
	return &CatalogClient{Client: newClient("catalog", opts, false, logger)}
}

// ListProducts handles GET /products
func (c *CatalogClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if _, err := c.call(ctx, http.MethodGet, "/products", nil, nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// GetProduct handles GET /products/{id}
func (c *CatalogClient) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	if _, err := c.call(ctx, http.MethodGet, "/products/{id}", map[string]string{"id": id}, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct handles POST /products
func (c *CatalogClient) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	var product domain.Product
	if _, err := c.call(ctx, http.MethodPost, "/products", nil, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
