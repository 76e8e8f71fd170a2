package models

import "time"

// Order 订单表，一个购物车行项目对应一条订单
type Order struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                    // 主键
	CheckoutNo      string    `gorm:"type:varchar(64);not null;index" json:"checkout_no"`      // 结算批次号
	ProductID       uint      `gorm:"not null;index" json:"product_id"`                        // 商品ID（弱引用，商品删除后仍保留）
	ProductName     string    `gorm:"type:varchar(200)" json:"product_name"`                   // 商品名称快照
	Quantity        int       `gorm:"not null" json:"quantity"`                                // 数量
	UnitPrice       Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 单价快照
	Subtotal        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 小计
	CustomerName    string    `gorm:"type:varchar(200);not null" json:"customer_name"`         // 收货人
	CustomerEmail   string    `gorm:"type:varchar(255);not null;index" json:"customer_email"`  // 邮箱
	CustomerAddress string    `gorm:"type:text;not null" json:"customer_address"`              // 收货地址
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                 // 创建时间
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
