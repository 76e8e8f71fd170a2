package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
)

// GetCatalogCategories 读取分类列表缓存
func GetCatalogCategories(ctx context.Context) ([]string, bool, error) {
	var categories []string
	hit, err := GetJSON(ctx, constants.CacheKeyCatalogCategories, &categories)
	if err != nil || !hit {
		return nil, hit, err
	}
	return categories, true, nil
}

// SetCatalogCategories 写入分类列表缓存
func SetCatalogCategories(ctx context.Context, categories []string, ttl time.Duration) error {
	return SetJSON(ctx, constants.CacheKeyCatalogCategories, categories, ttl)
}

// GetCatalogProduct 读取商品详情缓存
func GetCatalogProduct(ctx context.Context, id uint) (*models.Product, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	var product models.Product
	hit, err := GetJSON(ctx, catalogProductKey(id), &product)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &product, true, nil
}

// SetCatalogProduct 写入商品详情缓存
func SetCatalogProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	if product == nil || product.ID == 0 {
		return nil
	}
	return SetJSON(ctx, catalogProductKey(product.ID), product, ttl)
}

// InvalidateCatalog 商品写操作后清理分类与商品缓存
func InvalidateCatalog(ctx context.Context, productIDs ...uint) error {
	keys := []string{constants.CacheKeyCatalogCategories}
	for _, id := range productIDs {
		if id != 0 {
			keys = append(keys, catalogProductKey(id))
		}
	}
	return Del(ctx, keys...)
}

func catalogProductKey(id uint) string {
	return fmt.Sprintf(constants.CacheKeyCatalogProduct, id)
}

// InvalidateCatalogProducts 仅清理商品详情缓存，库存变化后调用
func InvalidateCatalogProducts(ctx context.Context, productIDs ...uint) error {
	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if id != 0 {
			keys = append(keys, catalogProductKey(id))
		}
	}
	return Del(ctx, keys...)
}
