package service

import "github.com/easytobuy/storefront/internal/domain"

// CheckoutRequest carries the details collected on the checkout form
type CheckoutRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// CheckoutResult describes a checkout where every line item was ordered
type CheckoutResult struct {
	Confirmations []string `json:"confirmations"`
	LineItems     int      `json:"lineItems"`
	Total         float64  `json:"total"`
}

type DashboardSummary struct {
	TotalRevenue      float64        `json:"totalRevenue"`
	OrderCount        int            `json:"orderCount"`
	ProductCount      int            `json:"productCount"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	RecentOrders      []domain.Order `json:"recentOrders"`
}

type ProductsView struct {
	Products     []domain.Product `json:"products"`
	Total        int              `json:"total"`
	Categories   int              `json:"categories"`
	Brands       int              `json:"brands"`
	AveragePrice float64          `json:"averagePrice"`
}

type OrdersView struct {
	Orders            []domain.Order `json:"orders"`
	Total             int            `json:"total"`
	TotalRevenue      float64        `json:"totalRevenue"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	TotalUnits        int            `json:"totalUnits"`
}

type InventoryView struct {
	Items          []domain.InventoryItem `json:"items"`
	Total          int                    `json:"total"`
	LowStock       []domain.InventoryItem `json:"lowStock"`
	LowStockCount  int                    `json:"lowStockCount"`
	TotalStock     int                    `json:"totalStock"`
	InventoryValue float64                `json:"inventoryValue"`
	ReorderLevel   int                    `json:"reorderLevel"`
}
