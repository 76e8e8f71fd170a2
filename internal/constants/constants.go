package constants

// 上传场景常量
const (
	UploadSceneProduct = "product"
	UploadSceneCommon  = "common"
)

// 队列相关常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskCheckoutPlaced      = "checkout:placed"
	TaskProductImageCleanup = "product:image_cleanup"
)

// 上下文键常量
const (
	ContextKeyRequestID   = "request_id"
	ContextKeyCartSession = "cart_session"
	ContextKeyAdminID     = "admin_id"
	ContextKeyAdminName   = "username"
)

// 缓存键常量
const (
	CacheKeyCatalogCategories = "catalog:categories"
	CacheKeyCatalogProduct    = "catalog:product:%d"
)

// 数量相关常量
const (
	DefaultCartQuantity = 1
	DefaultPageSize     = 20
	MaxPageSize         = 100
)
