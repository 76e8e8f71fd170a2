package repository

import "gorm.io/gorm"

// maxListPageSize 仓库层兜底的单页上限
const maxListPageSize = 100

// applyPagination 追加 LIMIT/OFFSET；pageSize 非正数时返回全部记录
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}
