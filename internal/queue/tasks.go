package queue

import (
	"encoding/json"

	"github.com/storefront-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCheckoutPlaced 结算完成跟进任务
	TaskCheckoutPlaced = constants.TaskCheckoutPlaced
	// TaskProductImageCleanup 商品图片清理任务
	TaskProductImageCleanup = constants.TaskProductImageCleanup
)

// CheckoutPlacedPayload 结算完成任务载荷
type CheckoutPlacedPayload struct {
	CheckoutNo string `json:"checkout_no"`
	OrderCount int    `json:"order_count"`
}

// ProductImageCleanupPayload 商品图片清理任务载荷
type ProductImageCleanupPayload struct {
	ProductID uint   `json:"product_id"`
	Image     string `json:"image"`
}

// NewCheckoutPlacedTask 创建结算完成任务
func NewCheckoutPlacedTask(payload CheckoutPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckoutPlaced, body), nil
}

// NewProductImageCleanupTask 创建商品图片清理任务
func NewProductImageCleanupTask(payload ProductImageCleanupPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProductImageCleanup, body), nil
}
