// Package aggregate derives display summaries from already-fetched
// catalog, order and inventory lists. Every function is pure and total:
// nil input is treated as an empty list.
package aggregate

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/easytobuy/storefront/internal/domain"
)

// TotalRevenue is the sum of price * quantity over all orders
func TotalRevenue(orders []domain.Order) float64 {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(lineTotal(o.Price, o.Quantity))
	}
	return sum.InexactFloat64()
}

// AverageOrderValue is revenue per order, 0 when there are no orders
func AverageOrderValue(orders []domain.Order) float64 {
	if len(orders) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(lineTotal(o.Price, o.Quantity))
	}
	return sum.Div(decimal.NewFromInt(int64(len(orders)))).InexactFloat64()
}

// TotalUnits is the number of units across all orders
func TotalUnits(orders []domain.Order) int {
	n := 0
	for _, o := range orders {
		n += o.Quantity
	}
	return n
}

// RecentOrders returns up to n orders, newest (last fetched) first
func RecentOrders(orders []domain.Order, n int) []domain.Order {
	if n <= 0 || len(orders) == 0 {
		return []domain.Order{}
	}
	if n > len(orders) {
		n = len(orders)
	}
	out := make([]domain.Order, 0, n)
	for i := len(orders) - 1; i >= len(orders)-n; i-- {
		out = append(out, orders[i])
	}
	return out
}

// LowStock keeps the items whose stock is at or below reorderLevel
func LowStock(items []domain.InventoryItem, reorderLevel int) []domain.InventoryItem {
	out := []domain.InventoryItem{}
	for _, item := range items {
		if item.Stock <= reorderLevel {
			out = append(out, item)
		}
	}
	return out
}

func TotalStock(items []domain.InventoryItem) int {
	n := 0
	for _, item := range items {
		n += item.Stock
	}
	return n
}

// InventoryValue is the sum of price * stock
func InventoryValue(items []domain.InventoryItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(lineTotal(item.Price, item.Stock))
	}
	return sum.InexactFloat64()
}

// AveragePrice is the mean product price rounded to a whole unit
func AveragePrice(products []domain.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, p := range products {
		sum = sum.Add(decimal.NewFromFloat(p.Price))
	}
	return sum.Div(decimal.NewFromInt(int64(len(products)))).Round(0).InexactFloat64()
}

// DistinctCount counts the unique values field yields over items
func DistinctCount[T any](items []T, field func(T) string) int {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		seen[field(item)] = struct{}{}
	}
	return len(seen)
}

// Search keeps the items where any field contains query, ignoring case.
// A blank query returns every item.
func Search[T any](items []T, query string, fields ...func(T) string) []T {
	if items == nil {
		return []T{}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	out := []T{}
	for _, item := range items {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// SearchProducts matches name, sku, brand and category
func SearchProducts(products []domain.Product, query string) []domain.Product {
	return Search(products, query, ProductName, ProductSKU, ProductBrand, ProductCategory)
}

// SearchOrders matches order number, email and sku
func SearchOrders(orders []domain.Order, query string) []domain.Order {
	return Search(orders, query,
		func(o domain.Order) string { return o.OrderNumber },
		func(o domain.Order) string { return o.Email },
		func(o domain.Order) string { return o.SKUCode },
	)
}

// SearchInventory matches name and sku
func SearchInventory(items []domain.InventoryItem, query string) []domain.InventoryItem {
	return Search(items, query,
		func(i domain.InventoryItem) string { return i.Name },
		func(i domain.InventoryItem) string { return i.SKUCode },
	)
}

func ProductName(p domain.Product) string     { return p.Name }
func ProductSKU(p domain.Product) string      { return p.SKUCode }
func ProductBrand(p domain.Product) string    { return p.Brand }
func ProductCategory(p domain.Product) string { return p.Category }

func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}
