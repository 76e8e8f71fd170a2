package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func newTestConsumer(t *testing.T, uploadDir string) *Consumer {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
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

	cfg := &config.Config{}
	cfg.Catalog.LowStockThreshold = 3
	cfg.Upload.Dir = uploadDir
	queueClient, _ := queue.NewClient(nil)
	return NewConsumer(provider.NewContainerWithDB(cfg, db, queueClient))
}

func createWorkerProduct(t *testing.T, c *Consumer, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Category: "Shoes", Price: models.MustMoney(price), Stock: stock}
	if err := c.ProductRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestSummarizeCheckoutReportsLowStock(t *testing.T) {
	c := newTestConsumer(t, t.TempDir())
	boots := createWorkerProduct(t, c, "Black Chelsea Boots", "74.99", 4)
	sneakers := createWorkerProduct(t, c, "White Sneakers", "22.99", 20)

	if _, err := c.CartService.AddItem("sess-worker", boots.ID, 2); err != nil {
		t.Fatalf("add boots failed: %v", err)
	}
	if _, err := c.CartService.AddItem("sess-worker", sneakers.ID, 1); err != nil {
		t.Fatalf("add sneakers failed: %v", err)
	}
	result, err := c.CheckoutService.Checkout("sess-worker", service.CustomerInfo{
		Name:    "Ada",
		Email:   "ada@example.com",
		Address: "1 Main St",
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	summary, err := c.summarizeCheckout(result.CheckoutNo)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary.OrderCount != 2 || summary.Units != 3 || summary.Total.String() != "172.97" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.CustomerEmail != "ada@example.com" {
		t.Fatalf("unexpected customer email: %s", summary.CustomerEmail)
	}
	if len(summary.LowStock) != 1 || summary.LowStock[0].ProductID != boots.ID || summary.LowStock[0].Stock != 2 {
		t.Fatalf("unexpected low stock list: %+v", summary.LowStock)
	}

	task, err := queue.NewCheckoutPlacedTask(queue.CheckoutPlacedPayload{CheckoutNo: result.CheckoutNo, OrderCount: 2})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleCheckoutPlaced(context.Background(), task); err != nil {
		t.Fatalf("handle checkout placed failed: %v", err)
	}
}

func TestHandleCheckoutPlacedSkipsInvalidPayload(t *testing.T) {
	c := newTestConsumer(t, t.TempDir())
	if err := c.handleCheckoutPlaced(context.Background(), asynq.NewTask(queue.TaskCheckoutPlaced, []byte(`{"checkout_no":"  "}`))); err != nil {
		t.Fatalf("blank checkout_no should be skipped, got %v", err)
	}
	if err := c.handleCheckoutPlaced(context.Background(), asynq.NewTask(queue.TaskCheckoutPlaced, []byte(`{"checkout_no":"SF-MISSING"}`))); err != nil {
		t.Fatalf("unknown checkout should be skipped, got %v", err)
	}
	if err := c.handleCheckoutPlaced(context.Background(), asynq.NewTask(queue.TaskCheckoutPlaced, []byte(`not-json`))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestHandleProductImageCleanupRemovesFile(t *testing.T) {
	root := t.TempDir()
	c := newTestConsumer(t, root)
	localPath := filepath.Join(root, "product", "2026", "10", "boots.png")
	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(localPath, []byte("img"), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	body, _ := json.Marshal(queue.ProductImageCleanupPayload{ProductID: 7, Image: "/uploads/product/2026/10/boots.png"})
	if err := c.handleProductImageCleanup(context.Background(), asynq.NewTask(queue.TaskProductImageCleanup, body)); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Fatalf("image should be removed")
	}

	external, _ := json.Marshal(queue.ProductImageCleanupPayload{ProductID: 8, Image: "https://cdn.example.com/boots.png"})
	if err := c.handleProductImageCleanup(context.Background(), asynq.NewTask(queue.TaskProductImageCleanup, external)); err != nil {
		t.Fatalf("external image should be ignored, got %v", err)
	}
}

func TestSweepLowStockListsProductsAtOrBelowThreshold(t *testing.T) {
	c := newTestConsumer(t, t.TempDir())
	createWorkerProduct(t, c, "White Sneakers", "22.99", 20)
	edge := createWorkerProduct(t, c, "Black Chelsea Boots", "74.99", 3)
	oversold := createWorkerProduct(t, c, "Canvas Slip-Ons", "19.99", -2)

	items, err := c.SweepLowStock()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 low stock products, got %d", len(items))
	}
	if items[0].ProductID != oversold.ID || items[0].Stock != -2 {
		t.Fatalf("oversold product should come first, got %+v", items[0])
	}
	if items[1].ProductID != edge.ID {
		t.Fatalf("threshold product should be included, got %+v", items[1])
	}
}
