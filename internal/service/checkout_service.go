package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/domain"
	apperrors "github.com/easytobuy/storefront/pkg/errors"
)

// Cart is the part of cart.Store checkout needs
type Cart interface {
	Items() []domain.CartLineItem
	RemoveLineItems(ctx context.Context, items []domain.CartLineItem)
}

// OrderPlacer creates one order per call
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (string, error)
}

type CheckoutService struct {
	orders   OrderPlacer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(orders OrderPlacer, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		validate: newValidator(),
		logger:   logger,
	}
}

// PlaceOrder submits one order per cart line item, in cart order, and
// stops at the first failure. The ordered line items leave the cart only
// when every one of them was placed; on failure the cart is left intact
// so the user can retry. Items added while checkout runs are kept.
func (s *CheckoutService) PlaceOrder(ctx context.Context, cart Cart, req CheckoutRequest) (*CheckoutResult, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	items := cart.Items()
	if len(items) == 0 {
		return nil, &apperrors.ErrValidation{Field: "cart", Message: "is empty"}
	}
	total := lineTotal(items)

	confirmations := make([]string, 0, len(items))
	for _, item := range items {
		msg, err := s.orders.PlaceOrder(ctx, domain.OrderRequest{
			SKUCode:  item.SKUCode,
			Price:    item.Price,
			Quantity: item.Quantity,
			Email:    req.Email,
		})
		if err != nil {
			s.logger.Error("Failed to place order for line item",
				zap.String("sku", item.SKUCode),
				zap.Int("placed", len(confirmations)),
				zap.Int("line_items", len(items)),
				zap.Error(err),
			)
			return nil, &apperrors.ErrCheckoutFailed{
				Placed:        len(confirmations),
				FailedSKU:     item.SKUCode,
				Confirmations: confirmations,
				Cause:         err,
			}
		}
		confirmations = append(confirmations, msg)
	}

	cart.RemoveLineItems(ctx, items)

	s.logger.Info("Checkout completed",
		zap.Int("line_items", len(items)),
		zap.Float64("total", total),
	)

	return &CheckoutResult{
		Confirmations: confirmations,
		LineItems:     len(items),
		Total:         total,
	}, nil
}

func lineTotal(items []domain.CartLineItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.InexactFloat64()
}
