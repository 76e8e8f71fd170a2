package service

import (
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// OrderService 后台订单查询服务
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListForAdmin 后台订单列表
func (s *OrderService) ListForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetForAdmin 后台订单详情
func (s *OrderService) GetForAdmin(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListByCheckoutNo 同一次结算的订单
func (s *OrderService) ListByCheckoutNo(checkoutNo string) ([]models.Order, error) {
	return s.orderRepo.ListByCheckoutNo(checkoutNo)
}
