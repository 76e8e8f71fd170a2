package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCheckoutPlaced, c.handleCheckoutPlaced)
	mux.HandleFunc(queue.TaskProductImageCleanup, c.handleProductImageCleanup)
}

// CheckoutSummary 一次结算的汇总信息
type CheckoutSummary struct {
	CheckoutNo    string
	CustomerEmail string
	OrderCount    int
	Units         int
	Total         models.Money
	LowStock      []LowStockProduct
}

// LowStockProduct 结算后库存不足的商品
type LowStockProduct struct {
	ProductID uint
	Name      string
	Stock     int
}

func (c *Consumer) handleCheckoutPlaced(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_checkout_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CheckoutPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_checkout_placed_unmarshal_failed", "error", err)
		return err
	}
	payload.CheckoutNo = strings.TrimSpace(payload.CheckoutNo)
	if payload.CheckoutNo == "" {
		logger.Debugw("worker_checkout_placed_skip_invalid_payload")
		return nil
	}
	summary, err := c.summarizeCheckout(payload.CheckoutNo)
	if err != nil {
		logger.Warnw("worker_checkout_placed_summarize_failed", "checkout_no", payload.CheckoutNo, "error", err)
		return err
	}
	if summary.OrderCount == 0 {
		logger.Debugw("worker_checkout_placed_skip_orders_not_found", "checkout_no", payload.CheckoutNo)
		return nil
	}
	logger.Infow("worker_checkout_placed_summary",
		"checkout_no", summary.CheckoutNo,
		"customer_email", summary.CustomerEmail,
		"order_count", summary.OrderCount,
		"units", summary.Units,
		"total", summary.Total.String(),
	)
	for _, item := range summary.LowStock {
		logger.Warnw("worker_checkout_placed_low_stock",
			"checkout_no", summary.CheckoutNo,
			"product_id", item.ProductID,
			"product_name", item.Name,
			"stock", item.Stock,
		)
	}
	return nil
}

// summarizeCheckout 汇总结算订单并找出库存不高于阈值的商品
func (c *Consumer) summarizeCheckout(checkoutNo string) (*CheckoutSummary, error) {
	orders, err := c.OrderService.ListByCheckoutNo(checkoutNo)
	if err != nil {
		return nil, err
	}
	summary := &CheckoutSummary{CheckoutNo: checkoutNo}
	if len(orders) == 0 {
		return summary, nil
	}
	summary.CustomerEmail = orders[0].CustomerEmail
	summary.OrderCount = len(orders)

	ids := make([]uint, 0, len(orders))
	for _, order := range orders {
		summary.Units += order.Quantity
		summary.Total = summary.Total.Add(order.Subtotal)
		if order.ProductID != 0 {
			ids = append(ids, order.ProductID)
		}
	}

	threshold := c.lowStockThreshold()
	products, err := c.ProductRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, product := range products {
		if product.Stock <= threshold {
			summary.LowStock = append(summary.LowStock, LowStockProduct{
				ProductID: product.ID,
				Name:      product.Name,
				Stock:     product.Stock,
			})
		}
	}
	return summary, nil
}

func (c *Consumer) lowStockThreshold() int {
	if c == nil || c.Config == nil {
		return 0
	}
	return c.Config.Catalog.LowStockThreshold
}

// SweepLowStock 巡检全部在售商品，返回库存不高于阈值的商品并逐条告警
func (c *Consumer) SweepLowStock() ([]LowStockProduct, error) {
	if c == nil || c.Container == nil || c.ProductRepo == nil {
		return nil, nil
	}
	threshold := c.lowStockThreshold()
	products, err := c.ProductRepo.ListLowStock(threshold)
	if err != nil {
		return nil, err
	}
	result := make([]LowStockProduct, 0, len(products))
	for _, product := range products {
		result = append(result, LowStockProduct{
			ProductID: product.ID,
			Name:      product.Name,
			Stock:     product.Stock,
		})
		logger.Warnw("worker_low_stock_sweep_item",
			"product_id", product.ID,
			"product_name", product.Name,
			"stock", product.Stock,
			"threshold", threshold,
		)
	}
	logger.Infow("worker_low_stock_sweep_done", "count", len(result), "threshold", threshold)
	return result, nil
}

func (c *Consumer) handleProductImageCleanup(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_product_image_cleanup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ProductImageCleanupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_product_image_cleanup_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.Image) == "" {
		logger.Debugw("worker_product_image_cleanup_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.ProductService == nil {
		logger.Warnw("worker_product_image_cleanup_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	if err := c.ProductService.CleanupImage(payload.ProductID, payload.Image); err != nil {
		logger.Warnw("worker_product_image_cleanup_failed", "product_id", payload.ProductID, "image", payload.Image, "error", err)
		return err
	}
	return nil
}
