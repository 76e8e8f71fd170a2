package service

import (
	"strconv"
	"strings"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// CartView 购物车视图
type CartView struct {
	Items     []models.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     models.Money      `json:"total"`
}

// CartService 购物车服务
//
// 行项目在加入时快照商品名称、单价、库存与图片，之后的数量调整只参考快照库存。
// 每次变更后保持 1 <= quantity <= stock 快照。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ParseQuantity 解析外部传入的数量，非正整数一律视为 1
func ParseQuantity(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return constants.DefaultCartQuantity
	}
	return NormalizeQuantity(value)
}

// NormalizeQuantity 数量小于 1 时回退为 1
func NormalizeQuantity(quantity int) int {
	if quantity < 1 {
		return constants.DefaultCartQuantity
	}
	return quantity
}

// mergeQuantity 累加数量并按快照库存截断，先比较余量再相加以免溢出
func mergeQuantity(current, requested, stock int) int {
	if requested >= stock-current {
		return clampQuantity(stock, stock)
	}
	return clampQuantity(current+requested, stock)
}

func clampQuantity(quantity, stock int) int {
	if quantity > stock {
		quantity = stock
	}
	if quantity < 1 {
		quantity = 1
	}
	return quantity
}

// Get 获取购物车
func (s *CartService) Get(sessionID string) (*CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	items, err := s.cartRepo.ListBySession(sessionID)
	if err != nil {
		return nil, err
	}
	return buildCartView(items), nil
}

// AddItem 加入购物车
//
// 已存在的行项目累加数量并按快照库存截断。新行项目的数量按当前库存截断，
// 当前库存不足 1 件时不创建。商品不存在时静默忽略。
func (s *CartService) AddItem(sessionID string, productID uint, requested int) (*CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	requested = NormalizeQuantity(requested)

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		logger.Debugw("cart_add_unknown_product", "session_id", sessionID, "product_id", productID)
		return s.Get(sessionID)
	}

	existing, err := s.cartRepo.GetBySessionAndProduct(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		quantity := mergeQuantity(existing.Quantity, requested, existing.Stock)
		if quantity != existing.Quantity {
			if err := s.cartRepo.UpdateQuantity(existing.ID, quantity); err != nil {
				return nil, err
			}
		}
		logger.Debugw("cart_item_merged",
			"session_id", sessionID,
			"product_id", productID,
			"requested", requested,
			"quantity", quantity,
		)
		return s.Get(sessionID)
	}

	quantity := requested
	if quantity > product.Stock {
		quantity = product.Stock
	}
	if quantity < 1 {
		logger.Infow("cart_add_out_of_stock", "session_id", sessionID, "product_id", productID, "stock", product.Stock)
		return s.Get(sessionID)
	}

	item := &models.CartItem{
		SessionID: sessionID,
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Stock:     product.Stock,
		Image:     product.Image,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	logger.Debugw("cart_item_added",
		"session_id", sessionID,
		"product_id", productID,
		"quantity", quantity,
		"stock_snapshot", product.Stock,
	)
	return s.Get(sessionID)
}

// RemoveItem 移除行项目，不存在时忽略
func (s *CartService) RemoveItem(sessionID string, productID uint) (*CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	removed, err := s.cartRepo.DeleteBySessionAndProduct(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		logger.Debugw("cart_item_removed", "session_id", sessionID, "product_id", productID)
	}
	return s.Get(sessionID)
}

// UpdateQuantity 设置行项目数量，按快照库存截断，不存在时忽略
func (s *CartService) UpdateQuantity(sessionID string, productID uint, requested int) (*CartView, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrInvalidSession
	}
	item, err := s.cartRepo.GetBySessionAndProduct(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return s.Get(sessionID)
	}
	quantity := clampQuantity(NormalizeQuantity(requested), item.Stock)
	if quantity != item.Quantity {
		if err := s.cartRepo.UpdateQuantity(item.ID, quantity); err != nil {
			return nil, err
		}
	}
	return s.Get(sessionID)
}

// Clear 清空购物车
func (s *CartService) Clear(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	_, err := s.cartRepo.ClearBySession(sessionID)
	return err
}

// CartTotal 按快照单价计算合计
func CartTotal(items []models.CartItem) models.Money {
	total := models.Money{}
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func buildCartView(items []models.CartItem) *CartView {
	if items == nil {
		items = []models.CartItem{}
	}
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return &CartView{
		Items:     items,
		ItemCount: count,
		Total:     CartTotal(items),
	}
}
