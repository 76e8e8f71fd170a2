package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name      string         `gorm:"type:varchar(200);not null" json:"name"`             // 商品名称
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Category  string         `gorm:"type:varchar(100);not null;index" json:"category"`   // 分类名称
	Image     string         `gorm:"type:varchar(500)" json:"image"`                     // 图片路径
	Stock     int            `gorm:"not null;default:0" json:"stock"`                    // 当前库存（可能因并发下单变为负数）
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
