package public

import (
	"errors"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, err)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var catalogErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSession, code: response.CodeUnauthorized, key: "error.session_invalid"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidSession, code: response.CodeUnauthorized, key: "error.session_invalid"},
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCustomerInfoInvalid, code: response.CodeBadRequest, key: "error.customer_info_invalid"},
	{target: service.ErrProductNotAvailable, code: response.CodeConflict, key: "error.product_not_available"},
}

func respondCatalogError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, catalogErrorRules, response.CodeInternal, fallbackKey)
}

func respondCartError(c *gin.Context, err error, fallbackKey string) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, fallbackKey)
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
}
