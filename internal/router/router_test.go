package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerTestEnv struct {
	engine  *gin.Engine
	db      *gorm.DB
	cookies []*http.Cookie
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.MigrateTo(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.Decode(v)
	if err != nil {
		t.Fatalf("decode config failed: %v", err)
	}
	cfg.Server.Mode = "debug"
	cfg.JWT.SecretKey = "router-test-secret"
	cfg.Upload.Dir = t.TempDir()

	queueClient, _ := queue.NewClient(nil)
	container := provider.NewContainerWithDB(cfg, db, queueClient)
	return &routerTestEnv{engine: SetupRouter(cfg, container), db: db}
}

func (e *routerTestEnv) do(t *testing.T, method, path string, body interface{}, token string) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, cookie := range e.cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	if cookies := w.Result().Cookies(); len(cookies) > 0 {
		e.cookies = cookies
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func (e *routerTestEnv) createProduct(t *testing.T, name, category, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Category: category, Price: models.MustMoney(price), Stock: stock}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestHealth(t *testing.T) {
	env := newRouterTestEnv(t)
	resp := env.do(t, http.MethodGet, "/health", nil, "")
	if resp.StatusCode != 0 {
		t.Fatalf("health should succeed, got %+v", resp)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	env := newRouterTestEnv(t)
	env.createProduct(t, "Sports Shoes Black", "Shoes", "65.70", 3)
	env.createProduct(t, "Leather Jacket", "Jackets", "98.77", 3)

	resp := env.do(t, http.MethodGet, "/api/v1/public/categories", nil, "")
	var categories []string
	if err := json.Unmarshal(resp.Data, &categories); err != nil {
		t.Fatalf("unmarshal categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Jackets" {
		t.Fatalf("unexpected categories: %v", categories)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/public/products?category=Shoes", nil, "")
	var products []models.Product
	if err := json.Unmarshal(resp.Data, &products); err != nil {
		t.Fatalf("unmarshal products failed: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Sports Shoes Black" {
		t.Fatalf("unexpected products: %+v", products)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/public/products/9999", nil, "")
	if resp.StatusCode != 404 {
		t.Fatalf("missing product should be 404, got %d", resp.StatusCode)
	}
}

func TestCartAndCheckoutFlow(t *testing.T) {
	env := newRouterTestEnv(t)
	shirt := env.createProduct(t, "Polo Black Shirt", "Shirts", "15.99", 10)

	resp := env.do(t, http.MethodGet, "/api/v1/checkout/preview", nil, "")
	if resp.StatusCode != 400 {
		t.Fatalf("empty cart preview should be refused, got %+v", resp)
	}
	if len(env.cookies) == 0 {
		t.Fatalf("session cookie should be issued")
	}

	resp = env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": shirt.ID, "quantity": "2"}, "")
	var view service.CartView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if resp.StatusCode != 0 || len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart after add: %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/cart/items", map[string]interface{}{"product_id": 9999, "quantity": 1}, "")
	if resp.StatusCode != 0 {
		t.Fatalf("unknown product add should succeed silently, got %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", map[string]string{"name": "Ada", "email": "not-an-email", "address": "1 Main St"}, "")
	if resp.StatusCode != 400 {
		t.Fatalf("invalid email should be refused, got %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/checkout", map[string]string{"name": "Ada", "email": "ada@example.com", "address": "1 Main St"}, "")
	if resp.StatusCode != 0 {
		t.Fatalf("checkout failed: %+v", resp)
	}
	var result struct {
		CheckoutNo string                `json:"checkout_no"`
		Orders     []models.Order        `json:"orders"`
		Stock      []service.StockChange `json:"stock"`
		Total      string                `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatalf("unmarshal checkout failed: %v", err)
	}
	if result.CheckoutNo == "" || len(result.Orders) != 1 || result.Total != "31.98" {
		t.Fatalf("unexpected checkout result: %+v", result)
	}
	if len(result.Stock) != 1 || result.Stock[0].Stock != 8 {
		t.Fatalf("unexpected stock change: %+v", result.Stock)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/cart", nil, "")
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if len(view.Items) != 0 {
		t.Fatalf("cart should be cleared after checkout: %+v", view)
	}
}

func TestAdminFlow(t *testing.T) {
	env := newRouterTestEnv(t)
	hash, err := service.HashPassword("Secret#123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := env.db.Create(&models.Admin{Username: "admin", PasswordHash: hash}).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	resp := env.do(t, http.MethodGet, "/api/v1/admin/products", nil, "")
	if resp.StatusCode != 401 {
		t.Fatalf("admin routes require a token, got %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/admin/login", map[string]string{"username": "admin", "password": "Secret#123"}, "")
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &login); err != nil || login.Token == "" {
		t.Fatalf("login failed: %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"name": "", "category": "Shirts", "price": "1.00", "stock": 1}, login.Token)
	if resp.StatusCode != 400 {
		t.Fatalf("blank name should be refused, got %+v", resp)
	}

	resp = env.do(t, http.MethodPost, "/api/v1/admin/products", map[string]interface{}{"name": "Jeans Blue", "category": "Jeans", "price": "39.99", "stock": 7}, login.Token)
	var product models.Product
	if err := json.Unmarshal(resp.Data, &product); err != nil || product.ID == 0 {
		t.Fatalf("create product failed: %+v", resp)
	}

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", product.ID), nil, login.Token)
	if resp.StatusCode != 0 {
		t.Fatalf("delete product failed: %+v", resp)
	}

	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders", nil, login.Token)
	if resp.StatusCode != 0 {
		t.Fatalf("list orders failed: %+v", resp)
	}

	resp = env.do(t, http.MethodPut, "/api/v1/admin/password", map[string]string{"old_password": "Secret#123", "new_password": "NewSecret#1"}, login.Token)
	if resp.StatusCode != 0 {
		t.Fatalf("change password failed: %+v", resp)
	}
	resp = env.do(t, http.MethodGet, "/api/v1/admin/orders", nil, login.Token)
	if resp.StatusCode != 401 {
		t.Fatalf("old token should be revoked, got %d", resp.StatusCode)
	}
}
