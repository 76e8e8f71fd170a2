package shared

import "strings"

// messages 错误提示文案，按 key 查找
var messages = map[string]string{
	"error.bad_request":              "invalid request",
	"error.unauthorized":             "unauthorized",
	"error.forbidden":                "forbidden",
	"error.not_found":                "resource not found",
	"error.internal":                 "internal server error",
	"error.too_many_requests":        "too many requests, please try again later",
	"error.rate_limit_unavailable":   "rate limiter is unavailable",
	"error.session_invalid":          "cart session is missing",
	"error.product_not_found":        "product not found",
	"error.product_not_available":    "product is no longer available",
	"error.product_fetch_failed":     "failed to load products",
	"error.product_create_failed":    "failed to create product",
	"error.product_update_failed":    "failed to update product",
	"error.product_delete_failed":    "failed to delete product",
	"error.product_name_required":    "product name is required",
	"error.product_category_empty":   "product category is required",
	"error.product_price_invalid":    "price must be a non-negative amount",
	"error.product_stock_invalid":    "stock must be a non-negative integer",
	"error.category_fetch_failed":    "failed to load categories",
	"error.cart_fetch_failed":        "failed to load cart",
	"error.cart_update_failed":       "failed to update cart",
	"error.cart_empty":               "your cart is empty",
	"error.customer_info_invalid":    "name, email and address are required and email must be valid",
	"error.checkout_failed":          "checkout failed",
	"error.order_not_found":          "order not found",
	"error.order_fetch_failed":       "failed to load orders",
	"error.admin_login_invalid":      "invalid username or password",
	"error.login_failed":             "login failed",
	"error.login_rate_limited":       "too many login attempts, please try again later",
	"error.checkout_rate_limited":    "too many checkout attempts, please try again later",
	"error.token_invalid":            "token is invalid or expired",
	"error.token_revoked":            "token has been revoked",
	"error.admin_id_invalid":         "admin id is invalid",
	"error.admin_id_type_invalid":    "admin id has an unexpected type",
	"error.password_old_invalid":     "old password is incorrect",
	"error.password_weak":            "new password must be at least 8 characters",
	"error.admin_not_found":          "admin not found",
	"error.save_failed":              "save failed",
	"error.file_missing":             "file is required",
	"error.upload_invalid":           "file type, size or dimensions not allowed",
	"error.upload_failed":            "upload failed",
	"error.health_database_unusable": "database is unavailable",
}

// Message 返回 key 对应的提示文案，未登记的 key 原样返回
func Message(key string) string {
	if msg, ok := messages[strings.TrimSpace(key)]; ok {
		return msg
	}
	return key
}
