package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/easytobuy/storefront/internal/aggregate"
	"github.com/easytobuy/storefront/internal/domain"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

const (
	recentOrdersLimit = 5
	stockLookupLimit  = 8
)

// Catalog reads and creates products
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error)
}

type OrderLister interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// StockReader returns the stock level of one SKU
type StockReader interface {
	StockLevel(ctx context.Context, skuCode string) (int, error)
}

// DashboardService builds the admin views
type DashboardService struct {
	catalog      Catalog
	orders       OrderLister
	stock        StockReader
	reorderLevel int
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(catalog Catalog, orders OrderLister, stock StockReader, reorderLevel int, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		catalog:      catalog,
		orders:       orders,
		stock:        stock,
		reorderLevel: reorderLevel,
		validate:     newValidator(),
		logger:       logger,
	}
}

// Dashboard fetches products and orders concurrently and summarizes them
func (s *DashboardService) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var (
		products []domain.Product
		orders   []domain.Order
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.catalog.ListProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load dashboard", zap.Error(err))
		return nil, err
	}

	return &DashboardSummary{
		TotalRevenue:      aggregate.TotalRevenue(orders),
		OrderCount:        len(orders),
		ProductCount:      len(products),
		AverageOrderValue: aggregate.AverageOrderValue(orders),
		RecentOrders:      aggregate.RecentOrders(orders, recentOrdersLimit),
	}, nil
}

// Products returns the catalog filtered by query. The stats describe the
// whole catalog, not the filtered page.
func (s *DashboardService) Products(ctx context.Context, query string) (*ProductsView, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return &ProductsView{
		Products:     aggregate.SearchProducts(products, query),
		Total:        len(products),
		Categories:   aggregate.DistinctCount(products, aggregate.ProductCategory),
		Brands:       aggregate.DistinctCount(products, aggregate.ProductBrand),
		AveragePrice: aggregate.AveragePrice(products),
	}, nil
}

func (s *DashboardService) Orders(ctx context.Context, query string) (*OrdersView, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}

	return &OrdersView{
		Orders:            aggregate.SearchOrders(orders, query),
		Total:             len(orders),
		TotalRevenue:      aggregate.TotalRevenue(orders),
		AverageOrderValue: aggregate.AverageOrderValue(orders),
		TotalUnits:        aggregate.TotalUnits(orders),
	}, nil
}

// Inventory joins every product with its stock level. A failed lookup
// reports stock 0 for that product; only an unauthorized answer fails
// the view.
func (s *DashboardService) Inventory(ctx context.Context, query string) (*InventoryView, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.InventoryItem, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stockLookupLimit)
	for i, p := range products {
		g.Go(func() error {
			items[i] = domain.InventoryItem{Product: p, ReorderLevel: s.reorderLevel}

			stock, err := s.stock.StockLevel(gctx, p.SKUCode)
			if err != nil {
				var unauthorized *apperrors.ErrUnauthorized
				if errors.As(err, &unauthorized) {
					return err
				}
				s.logger.Warn("Failed to fetch stock level",
					zap.String("sku", p.SKUCode),
					zap.Error(err),
				)
				return nil
			}
			items[i].Stock = stock
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	low := aggregate.LowStock(items, s.reorderLevel)
	return &InventoryView{
		Items:          aggregate.SearchInventory(items, query),
		Total:          len(items),
		LowStock:       low,
		LowStockCount:  len(low),
		TotalStock:     aggregate.TotalStock(items),
		InventoryValue: aggregate.InventoryValue(items),
		ReorderLevel:   s.reorderLevel,
	}, nil
}

// CreateProduct validates req and adds it to the catalog
func (s *DashboardService) CreateProduct(ctx context.Context, req domain.ProductRequest) (*domain.Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.SKUCode = strings.TrimSpace(req.SKUCode)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	product, err := s.catalog.CreateProduct(ctx, req)
	if err != nil {
		s.logger.Error("Failed to create product", zap.String("sku", req.SKUCode), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Product created", zap.String("id", product.ID), zap.String("sku", product.SKUCode))
	return product, nil
}
