package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	cartRepo    *repository.GormCartRepository
	orderRepo   *repository.GormOrderRepository
	adminRepo   *repository.GormAdminRepository
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.MigrateTo(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return &serviceTestEnv{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		adminRepo:   repository.NewAdminRepository(db),
	}
}

func (e *serviceTestEnv) createProduct(t *testing.T, name, category, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Category: category,
		Price:    models.MustMoney(price),
		Image:    "/static/images/" + name + ".jpeg",
		Stock:    stock,
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func (e *serviceTestEnv) setStock(t *testing.T, productID uint, stock int) {
	t.Helper()
	if err := e.db.Model(&models.Product{}).Where("id = ?", productID).Update("stock", stock).Error; err != nil {
		t.Fatalf("set stock failed: %v", err)
	}
}

func (e *serviceTestEnv) stockOf(t *testing.T, productID uint) int {
	t.Helper()
	var product models.Product
	if err := e.db.Unscoped().First(&product, productID).Error; err != nil {
		t.Fatalf("load product failed: %v", err)
	}
	return product.Stock
}

func (e *serviceTestEnv) orderCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return count
}

type queueStub struct {
	enabled      bool
	err          error
	checkouts    []queue.CheckoutPlacedPayload
	imageCleanup []queue.ProductImageCleanupPayload
}

func (q *queueStub) Enabled() bool {
	return q.enabled
}

func (q *queueStub) EnqueueCheckoutPlaced(payload queue.CheckoutPlacedPayload, _ ...asynq.Option) error {
	q.checkouts = append(q.checkouts, payload)
	return q.err
}

func (q *queueStub) EnqueueProductImageCleanup(payload queue.ProductImageCleanupPayload, _ ...asynq.Option) error {
	q.imageCleanup = append(q.imageCleanup, payload)
	return q.err
}
