package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminOrders 订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c, h.defaultPageSize())
	productID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("product_id")), 10, 64)

	orders, total, err := h.OrderService.ListForAdmin(repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		CheckoutNo:    strings.TrimSpace(c.Query("checkout_no")),
		CustomerEmail: strings.TrimSpace(c.Query("email")),
		ProductID:     uint(productID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, handlershared.BuildPagination(page, pageSize, total))
}

// GetAdminOrder 订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetForAdmin(id)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
		}, response.CodeInternal, "error.order_fetch_failed")
		return
	}
	response.Success(c, order)
}
