package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/aggregate"
	"github.com/easytobuy/storefront/internal/domain"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// CatalogService serves the storefront product pages
type CatalogService struct {
	catalog Catalog
	logger  *zap.Logger
}

func NewCatalogService(catalog Catalog, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// Browse lists the products matching query
func (s *CatalogService) Browse(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	return aggregate.SearchProducts(products, query), nil
}

func (s *CatalogService) Product(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &apperrors.ErrValidation{Field: "id", Message: "is required"}
	}
	return s.catalog.GetProduct(ctx, id)
}
