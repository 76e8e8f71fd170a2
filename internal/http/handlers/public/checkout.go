package public

import (
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// PreviewCheckout 结算预览，购物车为空时拒绝
func (h *Handler) PreviewCheckout(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	view, err := h.CheckoutService.Preview(sessionID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, view)
}

// Checkout 提交结算
func (h *Handler) Checkout(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	result, err := h.CheckoutService.Checkout(sessionID, service.CustomerInfo{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	requestLog(c).Infow("checkout_request_completed",
		"checkout_no", result.CheckoutNo,
		"order_count", len(result.Orders),
	)
	response.Success(c, result)
}
