package service

import (
	"context"
	"strings"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
)

// ProductTaskEnqueuer 商品相关异步任务投递
type ProductTaskEnqueuer interface {
	Enabled() bool
	EnqueueProductImageCleanup(payload queue.ProductImageCleanupPayload, opts ...asynq.Option) error
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name     string
	Category string
	Image    string
	Price    decimal.Decimal
	Stock    int
}

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	uploads     *UploadService
	queueClient ProductTaskEnqueuer
	cacheTTL    time.Duration
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, uploads *UploadService, queueClient ProductTaskEnqueuer, cacheTTL time.Duration) *ProductService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &ProductService{
		repo:        repo,
		uploads:     uploads,
		queueClient: queueClient,
		cacheTTL:    cacheTTL,
	}
}

// NormalizePageSize 页大小非法时使用默认值，并限制上限
func NormalizePageSize(pageSize, fallback int) int {
	if fallback <= 0 {
		fallback = constants.DefaultPageSize
	}
	if pageSize <= 0 {
		pageSize = fallback
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return pageSize
}

// List 商品列表
func (s *ProductService) List(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
}

// ListCategories 去重排序后的分类列表，优先读取缓存
func (s *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	if categories, hit, err := cache.GetCatalogCategories(ctx); err == nil && hit {
		return categories, nil
	} else if err != nil {
		logger.Warnw("catalog_categories_cache_read_failed", "error", err)
	}
	categories, err := s.repo.ListCategories()
	if err != nil {
		return nil, err
	}
	if err := cache.SetCatalogCategories(ctx, categories, s.cacheTTL); err != nil {
		logger.Warnw("catalog_categories_cache_write_failed", "error", err)
	}
	return categories, nil
}

// GetPublic 商品详情，优先读取缓存
func (s *ProductService) GetPublic(ctx context.Context, id uint) (*models.Product, error) {
	if product, hit, err := cache.GetCatalogProduct(ctx, id); err == nil && hit {
		return product, nil
	}
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := cache.SetCatalogProduct(ctx, product, s.cacheTTL); err != nil {
		logger.Warnw("catalog_product_cache_write_failed", "product_id", id, "error", err)
	}
	return product, nil
}

// Get 直接从数据库读取商品
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func validateProductInput(input ProductInput) (ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Category = strings.TrimSpace(input.Category)
	input.Image = strings.TrimSpace(input.Image)
	if input.Name == "" {
		return input, ErrProductNameRequired
	}
	if input.Category == "" {
		return input, ErrProductCategoryEmpty
	}
	if input.Price.IsNegative() {
		return input, ErrProductPriceInvalid
	}
	if input.Stock < 0 {
		return input, ErrProductStockInvalid
	}
	return input, nil
}

// Create 创建商品
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	normalized, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}
	product := &models.Product{
		Name:     normalized.Name,
		Category: normalized.Category,
		Image:    normalized.Image,
		Price:    models.NewMoneyFromDecimal(normalized.Price),
		Stock:    normalized.Stock,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	logger.Infow("product_created", "product_id", product.ID, "category", product.Category)
	return product, nil
}

// Update 更新商品，替换图片时清理旧图片
func (s *ProductService) Update(ctx context.Context, id uint, input ProductInput) (*models.Product, error) {
	normalized, err := validateProductInput(input)
	if err != nil {
		return nil, err
	}
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	oldImage := product.Image

	product.Name = normalized.Name
	product.Category = normalized.Category
	product.Image = normalized.Image
	product.Price = models.NewMoneyFromDecimal(normalized.Price)
	product.Stock = normalized.Stock
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	if oldImage != "" && oldImage != product.Image {
		s.cleanupImage(product.ID, oldImage)
	}
	logger.Infow("product_updated", "product_id", product.ID)
	return product, nil
}

// Delete 删除商品及其图片，历史订单不受影响
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(product.ID); err != nil {
		return err
	}
	s.invalidate(ctx, product.ID)
	s.cleanupImage(product.ID, product.Image)
	logger.Infow("product_deleted", "product_id", product.ID)
	return nil
}

// CleanupImage 删除商品图片文件，供异步任务调用；仍被其他在售商品引用时保留
func (s *ProductService) CleanupImage(productID uint, image string) error {
	if s.uploads == nil {
		return nil
	}
	refs, err := s.repo.CountByImage(image)
	if err != nil {
		return err
	}
	if refs > 0 {
		logger.Infow("product_image_cleanup_skipped_shared", "product_id", productID, "image", image, "references", refs)
		return nil
	}
	removed, err := s.uploads.RemoveFile(image)
	if err != nil {
		return err
	}
	if removed {
		logger.Infow("product_image_removed", "product_id", productID, "image", image)
	}
	return nil
}

func (s *ProductService) cleanupImage(productID uint, image string) {
	if strings.TrimSpace(image) == "" {
		return
	}
	if s.queueClient != nil && s.queueClient.Enabled() {
		payload := queue.ProductImageCleanupPayload{ProductID: productID, Image: image}
		err := s.queueClient.EnqueueProductImageCleanup(payload)
		if err == nil {
			return
		}
		logger.Warnw("product_image_cleanup_enqueue_failed", "product_id", productID, "error", err)
	}
	if err := s.CleanupImage(productID, image); err != nil {
		logger.Warnw("product_image_cleanup_failed", "product_id", productID, "image", image, "error", err)
	}
}

func (s *ProductService) invalidate(ctx context.Context, productID uint) {
	if err := cache.InvalidateCatalog(ctx, productID); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "product_id", productID, "error", err)
	}
}
