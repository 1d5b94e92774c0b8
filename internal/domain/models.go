package domain

import (
	"strings"

	"github.com/easytobuy/storefront/pkg/errors"
)

// CartLineItem is one product the user intends to purchase. Name and
// Price are copied when the item is added and never re-fetched.
type CartLineItem struct {
	ID       string  `json:"id"`
	SKUCode  string  `json:"skuCode"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Validate rejects line items that would break the cart invariants
func (i CartLineItem) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return &errors.ErrValidation{Field: "id", Message: "is required"}
	}
	if strings.TrimSpace(i.SKUCode) == "" {
		return &errors.ErrValidation{Field: "skuCode", Message: "is required"}
	}
	if i.Price < 0 {
		return &errors.ErrValidation{Field: "price", Message: "must not be negative"}
	}
	if i.Quantity < 1 {
		return &errors.ErrValidation{Field: "quantity", Message: "must be at least 1"}
	}
	return nil
}

// Product is owned by the catalog service and never mutated here
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SKUCode     string   `json:"skuCode"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

// ProductRequest is the POST /products payload
type ProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"min=0"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	SKUCode     string   `json:"skuCode" binding:"required"`
	Images      []string `json:"images,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

// Order is the display projection of one placed line item
type Order struct {
	ID          string  `json:"id"`
	OrderNumber string  `json:"orderNumber"`
	SKUCode     string  `json:"skuCode"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Email       string  `json:"email"`
}

// OrderRequest is the POST /orders payload, one per cart line item
type OrderRequest struct {
	SKUCode  string  `json:"skuCode"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Email    string  `json:"email"`
}

// InventoryItem joins a catalog product with its stock level
type InventoryItem struct {
	Product
	Stock        int `json:"stock"`
	ReorderLevel int `json:"reorderLevel"`
}

// IsLowStock reports whether stock is at or below the reorder level
func (i InventoryItem) IsLowStock() bool {
	return i.Stock <= i.ReorderLevel
}

// StockPercentage is stock relative to five times the reorder level, capped at 100
func (i InventoryItem) StockPercentage() float64 {
	if i.ReorderLevel <= 0 {
		return 0
	}
	pct := float64(i.Stock) / float64(i.ReorderLevel*5) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by the auth service on login
type AuthResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// User is the profile stored next to the token
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// User extracts the profile part of the response
func (r AuthResponse) User() User {
	return User{
		ID:       r.ID,
		Email:    r.Email,
		FullName: r.FullName,
		Role:     r.Role,
	}
}
