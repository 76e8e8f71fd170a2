package repository

import (
	"errors"

	"github.com/storefront-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListBySession(sessionID string) ([]models.CartItem, error)
	GetBySessionAndProduct(sessionID string, productID uint) (*models.CartItem, error)
	Create(item *models.CartItem) error
	UpdateQuantity(id uint, quantity int) error
	DeleteBySessionAndProduct(sessionID string, productID uint) (int64, error)
	ClearBySession(sessionID string) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListBySession 按加入顺序返回会话购物车
func (r *GormCartRepository) ListBySession(sessionID string) ([]models.CartItem, error) {
	items := make([]models.CartItem, 0)
	if sessionID == "" {
		return items, nil
	}
	if err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetBySessionAndProduct 获取单个行项目
func (r *GormCartRepository) GetBySessionAndProduct(sessionID string, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// Create 新增行项目
func (r *GormCartRepository) Create(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	return r.db.Create(item).Error
}

// UpdateQuantity 更新行项目数量
func (r *GormCartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

// DeleteBySessionAndProduct 删除行项目
func (r *GormCartRepository) DeleteBySessionAndProduct(sessionID string, productID uint) (int64, error) {
	result := r.db.Where("session_id = ? AND product_id = ?", sessionID, productID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearBySession 清空会话购物车
func (r *GormCartRepository) ClearBySession(sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}
	result := r.db.Where("session_id = ?", sessionID).Delete(&models.CartItem{})
	return result.RowsAffected, result.Error
}
