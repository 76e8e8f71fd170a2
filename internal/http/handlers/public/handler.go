package public

import "github.com/storefront-next/internal/provider"

// Handler 前台/公开接口处理器入口
// 说明：该处理器仅用于商品浏览、购物车与结算 API。
type Handler struct {
	*provider.Container
}

// New 创建前台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func (h *Handler) defaultPageSize() int {
	if h == nil || h.Config == nil {
		return 0
	}
	return h.Config.Catalog.DefaultPageSize
}
