package models

import "time"

// CartItem 购物车行项目
//
// Name、Price、Stock、Image 均为加入购物车时的商品快照，之后不随商品变化。
// 同一会话内按 ID 升序即为加入顺序。
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"-"`                                                     // 主键
	SessionID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_cart_session_product" json:"-"` // 会话ID
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_session_product" json:"product_id"`         // 商品ID
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`                                  // 商品名称快照
	Price     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                      // 单价快照
	Quantity  int       `gorm:"not null" json:"quantity"`                                                // 数量
	Stock     int       `gorm:"not null" json:"stock"`                                                   // 库存快照
	Image     string    `gorm:"type:varchar(500)" json:"image"`                                          // 图片快照
	CreatedAt time.Time `json:"created_at"`                                                              // 加入时间
	UpdatedAt time.Time `json:"updated_at"`                                                              // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}

// LineTotal 行小计
func (c CartItem) LineTotal() Money {
	return c.Price.MulInt(c.Quantity)
}
