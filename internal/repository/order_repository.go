package repository

import (
	"errors"
	"strings"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	CreateBatch(orders []models.Order) error
	GetByID(id uint) (*models.Order, error)
	ListByCheckoutNo(checkoutNo string) ([]models.Order, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	WithTx(tx *gorm.DB) OrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// CreateBatch 按顺序写入订单，回填主键
func (r *GormOrderRepository) CreateBatch(orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.Create(&orders).Error
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListByCheckoutNo 获取同一次结算的订单
func (r *GormOrderRepository) ListByCheckoutNo(checkoutNo string) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	checkoutNo = strings.TrimSpace(checkoutNo)
	if checkoutNo == "" {
		return orders, nil
	}
	if err := r.db.Where("checkout_no = ?", checkoutNo).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAdmin 后台订单列表，最新在前
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if checkoutNo := strings.TrimSpace(filter.CheckoutNo); checkoutNo != "" {
		query = query.Where("checkout_no = ?", checkoutNo)
	}
	if email := strings.TrimSpace(filter.CustomerEmail); email != "" {
		condition, argCount := buildLikeCondition(r.db, []string{"customer_email"})
		query = query.Where(condition, repeatLikeArgs(likePattern(email), argCount)...)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]models.Order, 0)
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
