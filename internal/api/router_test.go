package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/easytobuy/storefront/internal/api/middleware"
	"github.com/easytobuy/storefront/internal/cart"
	"github.com/easytobuy/storefront/internal/client"
	"github.com/easytobuy/storefront/internal/config"
	"github.com/easytobuy/storefront/internal/domain"
	"github.com/easytobuy/storefront/internal/service"
	"github.com/easytobuy/storefront/internal/storage/file"
)

// backend fakes the catalog, order, inventory and auth services on one server
type backend struct {
	mu           sync.Mutex
	orders       []domain.OrderRequest
	failOrderAt  int
	authHeaders  []string
	unauthorized bool
}

var testProducts = []domain.Product{
	{ID: "65a1f0c2e4b0a1b2c3d4e5f6", Name: "Trail Runner", Brand: "Nike", Category: "Shoes", SKUCode: "SHOE-1", Price: 100},
	{ID: "65a1f0c2e4b0a1b2c3d4e5f7", Name: "Sun Hat", Brand: "Puma", Category: "Hats", SKUCode: "HAT-7", Price: 50},
}

func (b *backend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, testProducts)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range testProducts {
			if p.ID == r.PathValue("id") {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		var req domain.ProductRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusCreated, domain.Product{ID: "3", Name: req.Name, SKUCode: req.SKUCode, Price: req.Price})
	})
	mux.HandleFunc("GET /orders", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Order{
			{OrderNumber: "ORD-1", SKUCode: "SHOE-1", Price: 100, Quantity: 1, Email: "ann@example.com"},
		})
	})
	mux.HandleFunc("POST /orders", func(w http.ResponseWriter, r *http.Request) {
		var req domain.OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		b.orders = append(b.orders, req)
		fail := b.failOrderAt > 0 && len(b.orders) == b.failOrderAt
		b.mu.Unlock()

		if fail {
			http.Error(w, "database unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, "Order Placed Successfully")
	})
	mux.HandleFunc("GET /inventory/{sku}", func(w http.ResponseWriter, r *http.Request) {
		levels := map[string]int{"SHOE-1": 100, "HAT-7": 4}
		writeJSON(w, http.StatusOK, levels[r.PathValue("sku")])
	})
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var req domain.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, domain.AuthResponse{
			Token: "tok-1", Type: "Bearer", ID: "7", Email: req.Email, FullName: "Ada Admin", Role: "ADMIN",
		})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.User{ID: "7", Email: "admin@test.com", Role: "ADMIN"})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
		unauthorized := b.unauthorized
		b.mu.Unlock()

		if unauthorized && r.URL.Path != "/login" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func (b *backend) placed() []domain.OrderRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.OrderRequest(nil), b.orders...)
}

func (b *backend) lastAuthHeader() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.authHeaders) == 0 {
		return ""
	}
	return b.authHeaders[len(b.authHeaders)-1]
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setupRouter(t *testing.T) (*gin.Engine, *backend) {
	router, b, _ := setupRouterWithCarts(t)
	return router, b
}

func setupRouterWithCarts(t *testing.T) (*gin.Engine, *backend, *cart.Registry) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	b := &backend{}
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	kv, err := file.NewStore(afero.NewMemMapFs(), "/data")
	require.NoError(t, err)

	opts := client.Options{BaseURL: srv.URL}
	catalog := client.NewCatalogClient(opts, logger)
	orders := client.NewOrderClient(opts, logger)

	carts := cart.NewRegistry(kv, 100, time.Hour, logger)
	svc := Services{
		Storage:   kv,
		Carts:     carts,
		Checkout:  service.NewCheckoutService(orders, logger),
		Catalog:   service.NewCatalogService(catalog, logger),
		Dashboard: service.NewDashboardService(catalog, orders, client.NewInventoryClient(opts, logger), 20, logger),
		Auth:      service.NewAuthService(client.NewAuthClient(opts, logger), logger),
	}

	return NewRouter(&config.Config{Environment: "test"}, svc, logger), b, carts
}

func do(t *testing.T, router *gin.Engine, method, path, sessionID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

var (
	shoeItem = domain.CartLineItem{ID: "1", SKUCode: "SHOE-1", Name: "Trail Runner", Price: 100, Quantity: 2}
	hatItem  = domain.CartLineItem{ID: "2", SKUCode: "HAT-7", Name: "Sun Hat", Price: 50, Quantity: 1}
)

func TestHealth(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSessionID(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, "/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get(middleware.SessionHeader))
	assert.NoError(t, err, "a new session id is issued")

	id := uuid.New().String()
	w = do(t, router, http.MethodGet, "/v1/cart", id, nil)
	assert.Equal(t, id, w.Header().Get(middleware.SessionHeader))

	w = do(t, router, http.MethodGet, "/v1/cart", "../../etc/passwd", nil)
	assert.NotEqual(t, "../../etc/passwd", w.Header().Get(middleware.SessionHeader))
}

func TestCartFlow(t *testing.T) {
	router, _ := setupRouter(t)
	id := uuid.New().String()

	do(t, router, http.MethodPost, "/v1/cart/items", id, shoeItem)
	do(t, router, http.MethodPost, "/v1/cart/items", id, hatItem)
	w := do(t, router, http.MethodPost, "/v1/cart/items", id, shoeItem)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Items    []domain.CartLineItem `json:"items"`
		Total    float64               `json:"total"`
		Count    int                   `json:"count"`
		Quantity int                   `json:"quantity"`
	}
	decode(t, w, &got)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 5, got.Quantity)
	assert.Equal(t, 450.0, got.Total)
	assert.Equal(t, 4, got.Items[0].Quantity)

	// another session sees its own cart
	w = do(t, router, http.MethodGet, "/v1/cart", uuid.New().String(), nil)
	decode(t, w, &got)
	assert.Equal(t, 0, got.Count)
	assert.NotNil(t, got.Items)

	w = do(t, router, http.MethodDelete, "/v1/cart/items/1", id, nil)
	decode(t, w, &got)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 50.0, got.Total)

	w = do(t, router, http.MethodDelete, "/v1/cart/items/999", id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/v1/cart/items/abc", id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, 1, got.Count)

	w = do(t, router, http.MethodDelete, "/v1/cart", id, nil)
	decode(t, w, &got)
	assert.Equal(t, 0, got.Count)
	assert.Equal(t, 0.0, got.Total)
}

func TestAddCatalogProductToCart(t *testing.T) {
	router, _ := setupRouter(t)
	id := uuid.New().String()

	w := do(t, router, http.MethodGet, "/v1/products", id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listing struct {
		Products []domain.Product `json:"products"`
	}
	decode(t, w, &listing)
	require.NotEmpty(t, listing.Products)
	p := listing.Products[0]

	item := domain.CartLineItem{ID: p.ID, SKUCode: p.SKUCode, Name: p.Name, Price: p.Price, Quantity: 1}
	w = do(t, router, http.MethodPost, "/v1/cart/items", id, item)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got struct {
		Items []domain.CartLineItem `json:"items"`
		Count int                   `json:"count"`
	}
	decode(t, w, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, testProducts[0].ID, got.Items[0].ID)

	w = do(t, router, http.MethodDelete, "/v1/cart/items/"+p.ID, id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &got)
	assert.Equal(t, 0, got.Count)
}

func TestCartsResolvedOnlyWhenUsed(t *testing.T) {
	router, _, carts := setupRouterWithCarts(t)

	for i := 0; i < 20; i++ {
		w := do(t, router, http.MethodGet, "/v1/products", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 0, carts.Len())

	do(t, router, http.MethodGet, "/v1/cart", uuid.New().String(), nil)
	assert.Equal(t, 1, carts.Len())
}

func TestAddCartItem_Invalid(t *testing.T) {
	router, _ := setupRouter(t)
	id := uuid.New().String()

	bad := shoeItem
	bad.Quantity = 0
	w := do(t, router, http.MethodPost, "/v1/cart/items", id, bad)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, router, http.MethodGet, "/v1/cart", id, nil)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestCheckout(t *testing.T) {
	router, b := setupRouter(t)
	id := uuid.New().String()

	do(t, router, http.MethodPost, "/v1/cart/items", id, shoeItem)
	do(t, router, http.MethodPost, "/v1/cart/items", id, hatItem)

	w := do(t, router, http.MethodPost, "/v1/checkout", id, gin.H{"email": "ann@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result service.CheckoutResult
	decode(t, w, &result)
	assert.Equal(t, 2, result.LineItems)
	assert.Equal(t, 250.0, result.Total)
	assert.Equal(t, []string{"Order Placed Successfully", "Order Placed Successfully"}, result.Confirmations)

	placed := b.placed()
	require.Len(t, placed, 2)
	assert.Equal(t, domain.OrderRequest{SKUCode: "SHOE-1", Price: 100, Quantity: 2, Email: "ann@example.com"}, placed[0])

	w = do(t, router, http.MethodGet, "/v1/cart", id, nil)
	assert.Contains(t, w.Body.String(), `"count":0`)
}

func TestCheckout_PartialFailure(t *testing.T) {
	router, b := setupRouter(t)
	b.failOrderAt = 2
	id := uuid.New().String()

	do(t, router, http.MethodPost, "/v1/cart/items", id, shoeItem)
	do(t, router, http.MethodPost, "/v1/cart/items", id, hatItem)

	w := do(t, router, http.MethodPost, "/v1/checkout", id, gin.H{"email": "ann@example.com"})
	require.Equal(t, http.StatusBadGateway, w.Code)

	var got struct {
		Placed    int    `json:"placed"`
		FailedSKU string `json:"failedSku"`
	}
	decode(t, w, &got)
	assert.Equal(t, 1, got.Placed)
	assert.Equal(t, "HAT-7", got.FailedSKU)

	assert.Len(t, b.placed(), 2)

	w = do(t, router, http.MethodGet, "/v1/cart", id, nil)
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestCheckout_Validation(t *testing.T) {
	router, b := setupRouter(t)
	id := uuid.New().String()

	w := do(t, router, http.MethodPost, "/v1/checkout", id, gin.H{"email": "ann@example.com"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "empty cart")

	do(t, router, http.MethodPost, "/v1/cart/items", id, shoeItem)
	w = do(t, router, http.MethodPost, "/v1/checkout", id, gin.H{"email": "nope"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"email"`)

	assert.Empty(t, b.placed())
}

func TestProducts(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, "/v1/products?q=hat", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Products []domain.Product `json:"products"`
	}
	decode(t, w, &got)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "65a1f0c2e4b0a1b2c3d4e5f7", got.Products[0].ID)

	w = do(t, router, http.MethodGet, "/v1/products/65a1f0c2e4b0a1b2c3d4e5f6", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Trail Runner")

	w = do(t, router, http.MethodGet, "/v1/products/42", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginAndUnauthorized(t *testing.T) {
	router, b := setupRouter(t)
	id := uuid.New().String()

	w := do(t, router, http.MethodPost, "/v1/auth/login", id, gin.H{"email": "admin@test.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, router, http.MethodPost, "/v1/auth/login", id, gin.H{"email": "admin@test.com", "password": "admin123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
	assert.Empty(t, b.lastAuthHeader(), "login is sent without a token")

	w = do(t, router, http.MethodGet, "/v1/admin/orders", id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer tok-1", b.lastAuthHeader())

	// other sessions do not share the token
	do(t, router, http.MethodGet, "/v1/admin/orders", uuid.New().String(), nil)
	assert.Empty(t, b.lastAuthHeader())

	b.mu.Lock()
	b.unauthorized = true
	b.mu.Unlock()
	w = do(t, router, http.MethodGet, "/v1/admin/orders", id, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	b.mu.Lock()
	b.unauthorized = false
	b.mu.Unlock()
	do(t, router, http.MethodGet, "/v1/admin/orders", id, nil)
	assert.Empty(t, b.lastAuthHeader(), "401 cleared the session")
}

func TestLogout(t *testing.T) {
	router, b := setupRouter(t)
	id := uuid.New().String()

	do(t, router, http.MethodPost, "/v1/auth/login", id, gin.H{"email": "admin@test.com", "password": "admin123"})
	w := do(t, router, http.MethodPost, "/v1/auth/logout", id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	do(t, router, http.MethodGet, "/v1/auth/me", id, nil)
	assert.Empty(t, b.lastAuthHeader())
}

func TestAdminViews(t *testing.T) {
	router, _ := setupRouter(t)

	w := do(t, router, http.MethodGet, "/v1/admin/dashboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary service.DashboardSummary
	decode(t, w, &summary)
	assert.Equal(t, 100.0, summary.TotalRevenue)
	assert.Equal(t, 2, summary.ProductCount)

	w = do(t, router, http.MethodGet, "/v1/admin/inventory", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var inv service.InventoryView
	decode(t, w, &inv)
	assert.Equal(t, 104, inv.TotalStock)
	require.Len(t, inv.LowStock, 1)
	assert.Equal(t, "HAT-7", inv.LowStock[0].SKUCode)

	w = do(t, router, http.MethodGet, "/v1/admin/products?q=nike", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products service.ProductsView
	decode(t, w, &products)
	assert.Len(t, products.Products, 1)
	assert.Equal(t, 2, products.Total)

	w = do(t, router, http.MethodPost, "/v1/admin/products", "", gin.H{"name": "Cap", "skuCode": "CAP-1", "price": 15})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, http.MethodPost, "/v1/admin/products", "", gin.H{"name": "Cap"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
