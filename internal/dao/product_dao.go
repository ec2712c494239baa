package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	productSlugCacheKeyFmt = "product:slug:%s"
	productCacheTTL        = 5 * time.Minute
)

type ProductDao struct {
	db    *gorm.DB
	redis redis.UniversalClient
}

func NewProductDao(db *gorm.DB, redis redis.UniversalClient) *ProductDao {
	return &ProductDao{
		db:    db,
		redis: redis,
	}
}

// GetProductByID 根据ID获取商品（不走缓存，下单/加购校验需要准确库存）
func (d *ProductDao) GetProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := d.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug 商品详情页入口，读穿透缓存
func (d *ProductDao) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	cacheKey := fmt.Sprintf(productSlugCacheKeyFmt, slug)

	// 1. 先查缓存
	if d.redis != nil {
		if cached, err := d.redis.Get(ctx, cacheKey).Result(); err == nil {
			var product model.Product
			if json.Unmarshal([]byte(cached), &product) == nil {
				return &product, nil
			}
		}
	}

	// 2. 缓存未命中查库
	var product model.Product
	if err := d.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}

	// 3. 异步回填缓存
	if d.redis != nil {
		if b, err := json.Marshal(&product); err == nil {
			go d.redis.Set(context.Background(), cacheKey, b, productCacheTTL)
		}
	}
	return &product, nil
}

// ProductFilter 商品列表筛选条件
type ProductFilter struct {
	CategoryID int64
	Tag        string
	ActiveOnly bool
	Page       int32
	PageSize   int32
}

// ListProducts 分页查询商品列表
func (d *ProductDao) ListProducts(ctx context.Context, f ProductFilter) ([]*model.Product, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = 20
	}

	q := d.db.WithContext(ctx).Model(&model.Product{})
	if f.CategoryID > 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if f.Tag != "" {
		// tags 为JSON数组列，按序列化后的元素匹配
		q = q.Where("tags LIKE ?", "%"+fmt.Sprintf("%q", f.Tag)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*model.Product
	err := q.Order("created_at DESC, id DESC").
		Limit(int(f.PageSize)).
		Offset(int((f.Page - 1) * f.PageSize)).
		Find(&products).Error

	return products, total, err
}

// SlugExists 检查slug是否被其他商品占用（excludeID为0表示新建）
func (d *ProductDao) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var count int64
	q := d.db.WithContext(ctx).Model(&model.Product{}).Where("slug = ?", slug)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateProduct 创建商品
func (d *ProductDao) CreateProduct(ctx context.Context, product *model.Product) (int64, error) {
	if err := d.db.WithContext(ctx).Create(product).Error; err != nil {
		return 0, err
	}
	return product.ID, nil
}

// UpdateProduct 更新商品并失效缓存
func (d *ProductDao) UpdateProduct(ctx context.Context, id int64, updates map[string]interface{}) error {
	var slug string
	d.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Pluck("slug", &slug)

	if err := d.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}
	d.invalidateCache(slug)
	if newSlug, ok := updates["slug"].(string); ok {
		d.invalidateCache(newSlug)
	}
	return nil
}

// DeleteProductByID 删除商品并失效缓存
func (d *ProductDao) DeleteProductByID(ctx context.Context, id int64) error {
	var slug string
	d.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Pluck("slug", &slug)

	if err := d.db.WithContext(ctx).Delete(&model.Product{}, id).Error; err != nil {
		return err
	}
	d.invalidateCache(slug)
	return nil
}

// AdjustInventory 后台直接调整库存，不允许调成负数
func (d *ProductDao) AdjustInventory(ctx context.Context, id int64, inventory int32) error {
	if inventory < 0 {
		return gorm.ErrInvalidValue
	}
	return d.UpdateProduct(ctx, id, map[string]interface{}{"inventory": inventory})
}

func (d *ProductDao) invalidateCache(slug string) {
	if d.redis == nil || slug == "" {
		return
	}
	if err := d.redis.Del(context.Background(), fmt.Sprintf(productSlugCacheKeyFmt, slug)).Err(); err != nil {
		logger.Warn("商品缓存失效失败", "slug", slug, "err", err)
	}
}

// DeductInventory 条件扣减：库存足够才扣，RowsAffected为0说明库存不足或商品不存在
// 传入事务句柄，供订单引擎在单个事务内逐项扣减
func DeductInventory(tx *gorm.DB, productID int64, quantity int32) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND inventory >= ?", productID, quantity).
		Update("inventory", gorm.Expr("inventory - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreInventory 取消订单的补偿动作，商品已被删除时静默跳过
func RestoreInventory(tx *gorm.DB, productID int64, quantity int32) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ?", productID).
		Update("inventory", gorm.Expr("inventory + ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
