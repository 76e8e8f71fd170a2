package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

// CheckoutTaskEnqueuer 结算完成后的异步任务投递
type CheckoutTaskEnqueuer interface {
	EnqueueCheckoutPlaced(payload queue.CheckoutPlacedPayload, opts ...asynq.Option) error
}

// CustomerInfo 收货信息
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// StockChange 结算后的库存变化
type StockChange struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Stock     int    `json:"stock"`
}

// CheckoutResult 结算结果
type CheckoutResult struct {
	CheckoutNo string         `json:"checkout_no"`
	Orders     []models.Order `json:"orders"`
	Stock      []StockChange  `json:"stock"`
	Total      models.Money   `json:"total"`
}

// CheckoutService 结算服务
//
// 订单写入、库存扣减与购物车清空在同一个数据库事务内完成，任一步失败整体回滚。
// 库存扣减不做下限校验，并发结算可能使库存变为负数。
type CheckoutService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	queueClient CheckoutTaskEnqueuer
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	queueClient CheckoutTaskEnqueuer,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// ValidateCustomerInfo 去除首尾空白并校验必填项与邮箱格式
func ValidateCustomerInfo(info CustomerInfo) (CustomerInfo, error) {
	normalized := CustomerInfo{
		Name:    strings.TrimSpace(info.Name),
		Email:   strings.TrimSpace(info.Email),
		Address: strings.TrimSpace(info.Address),
	}
	if normalized.Name == "" {
		return normalized, fmt.Errorf("%w: name is required", ErrCustomerInfoInvalid)
	}
	if normalized.Email == "" {
		return normalized, fmt.Errorf("%w: email is required", ErrCustomerInfoInvalid)
	}
	if normalized.Address == "" {
		return normalized, fmt.Errorf("%w: address is required", ErrCustomerInfoInvalid)
	}
	parsed, err := mail.ParseAddress(normalized.Email)
	if err != nil || parsed.Address != normalized.Email {
		return normalized, fmt.Errorf("%w: email is malformed", ErrCustomerInfoInvalid)
	}
	return normalized, nil
}

// Preview 结算前预览购物车
func (s *CheckoutService) Preview(sessionID string) (*CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	items, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	return buildCartView(items), nil
}

// Checkout 将购物车转换为订单并扣减库存
//
// 事务外的读取只用于提前拒绝空购物车与非法收货信息；行项目在事务内重新读取，
// 清空购物车删除的行数必须与读取到的行数一致，否则视为购物车已被并发结算并回滚。
func (s *CheckoutService) Checkout(sessionID string, info CustomerInfo) (*CheckoutResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	items, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	customer, err := ValidateCustomerInfo(info)
	if err != nil {
		return nil, err
	}

	checkoutNo := generateCheckoutNo()
	result := &CheckoutResult{CheckoutNo: checkoutNo}

	err = s.productRepo.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		lines, err := cartRepo.ListBySession(sessionID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		orders := make([]models.Order, 0, len(lines))
		stock := make([]StockChange, 0, len(lines))
		for _, item := range lines {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				return fmt.Errorf("%w: product %d", ErrProductNotAvailable, item.ProductID)
			}
			product, err := productRepo.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: product %d", ErrProductNotAvailable, item.ProductID)
			}

			orders = append(orders, models.Order{
				CheckoutNo:      checkoutNo,
				ProductID:       item.ProductID,
				ProductName:     item.Name,
				Quantity:        item.Quantity,
				UnitPrice:       item.Price,
				Subtotal:        item.LineTotal(),
				CustomerName:    customer.Name,
				CustomerEmail:   customer.Email,
				CustomerAddress: customer.Address,
			})
			stock = append(stock, StockChange{
				ProductID: product.ID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				Stock:     product.Stock,
			})
		}

		if err := orderRepo.CreateBatch(orders); err != nil {
			return err
		}
		cleared, err := cartRepo.ClearBySession(sessionID)
		if err != nil {
			return err
		}
		if cleared != int64(len(lines)) {
			return fmt.Errorf("%w: cleared %d of %d lines", ErrEmptyCart, cleared, len(lines))
		}
		result.Orders = orders
		result.Stock = stock
		result.Total = CartTotal(lines)
		return nil
	})
	if err != nil {
		logger.Warnw("checkout_aborted",
			"session_id", sessionID,
			"checkout_no", checkoutNo,
			"error", err,
		)
		return nil, err
	}

	logger.Infow("checkout_completed",
		"session_id", sessionID,
		"checkout_no", checkoutNo,
		"order_count", len(result.Orders),
		"total", result.Total.String(),
	)
	s.invalidateStockCache(result)
	s.enqueueCheckoutPlaced(result)
	return result, nil
}

func (s *CheckoutService) invalidateStockCache(result *CheckoutResult) {
	ids := make([]uint, 0, len(result.Stock))
	for _, change := range result.Stock {
		ids = append(ids, change.ProductID)
	}
	if err := cache.InvalidateCatalogProducts(context.Background(), ids...); err != nil {
		logger.Warnw("checkout_cache_invalidate_failed", "checkout_no", result.CheckoutNo, "error", err)
	}
}

func (s *CheckoutService) enqueueCheckoutPlaced(result *CheckoutResult) {
	if s.queueClient == nil || result == nil {
		return
	}
	payload := queue.CheckoutPlacedPayload{
		CheckoutNo: result.CheckoutNo,
		OrderCount: len(result.Orders),
	}
	if err := s.queueClient.EnqueueCheckoutPlaced(payload); err != nil {
		logger.Warnw("checkout_placed_enqueue_failed",
			"checkout_no", result.CheckoutNo,
			"error", err,
		)
	}
}

func generateCheckoutNo() string {
	now := time.Now().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("SF%s%s", now, suffix)
}
