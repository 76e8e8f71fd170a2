package admin

import "github.com/storefront-next/internal/provider"

// Handler 后台接口处理器：管理员登录、商品维护、图片上传与订单查询
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// defaultPageSize 后台列表沿用目录分页配置
func (h *Handler) defaultPageSize() int {
	if h == nil || h.Config == nil {
		return 0
	}
	return h.Config.Catalog.DefaultPageSize
}
