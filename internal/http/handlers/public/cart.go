package public

import (
	"bytes"
	"encoding/json"

	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// QuantityParam 数量参数，兼容 JSON 数字与字符串
type QuantityParam struct {
	raw string
}

// UnmarshalJSON 保留原始文本，交由服务层统一解析
func (q *QuantityParam) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		q.raw = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		q.raw = s
		return nil
	}
	q.raw = string(b)
	return nil
}

// Value 解析后的数量，非正整数回退为 1
func (q QuantityParam) Value() int {
	return service.ParseQuantity(q.raw)
}

// AddCartItemRequest 加入购物车请求
type AddCartItemRequest struct {
	ProductID uint          `json:"product_id" binding:"required"`
	Quantity  QuantityParam `json:"quantity"`
}

// UpdateCartItemRequest 修改数量请求
type UpdateCartItemRequest struct {
	Quantity QuantityParam `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	view, err := h.CartService.Get(sessionID)
	if err != nil {
		respondCartError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}

// AddCartItem 加入购物车，商品不存在或无库存时返回原购物车
func (h *Handler) AddCartItem(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.AddItem(sessionID, req.ProductID, req.Quantity.Value())
	if err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, view)
}

// UpdateCartItem 修改购物车行项目数量
func (h *Handler) UpdateCartItem(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	view, err := h.CartService.UpdateQuantity(sessionID, productID, req.Quantity.Value())
	if err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	response.Success(c, view)
}

// RemoveCartItem 删除购物车行项目
func (h *Handler) RemoveCartItem(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	view, err := h.CartService.RemoveItem(sessionID, productID)
	if err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	requestLog(c).Debugw("cart_item_removed", "product_id", productID)
	response.Success(c, view)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	sessionID, ok := getCartSession(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(sessionID); err != nil {
		respondCartError(c, err, "error.cart_update_failed")
		return
	}
	view, err := h.CartService.Get(sessionID)
	if err != nil {
		respondCartError(c, err, "error.cart_fetch_failed")
		return
	}
	response.Success(c, view)
}
