package dao

import (
	"context"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"gorm.io/gorm"
)

type CartDao struct {
	db *gorm.DB
}

func NewCartDao(db *gorm.DB) *CartDao {
	return &CartDao{db: db}
}

// ListByUser 获取用户购物车，按加入顺序
func (d *CartDao) ListByUser(ctx context.Context, userID int64) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error
	return items, err
}

// GetByUserAndProduct 查找某商品在购物车里的既有行（合并加购用）
func (d *CartDao) GetByUserAndProduct(ctx context.Context, userID, productID int64) (*model.CartItem, error) {
	var item model.CartItem
	err := d.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetByIDForUser 仅允许操作自己的购物车行
func (d *CartDao) GetByIDForUser(ctx context.Context, itemID, userID int64) (*model.CartItem, error) {
	var item model.CartItem
	err := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create 新增购物车行
func (d *CartDao) Create(ctx context.Context, item *model.CartItem) error {
	return d.db.WithContext(ctx).Create(item).Error
}

// UpdateItem 更新数量/留言
func (d *CartDao) UpdateItem(ctx context.Context, itemID int64, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.CartItem{}).Where("id = ?", itemID).Updates(updates).Error
}

// Delete 删除单行
func (d *CartDao) Delete(ctx context.Context, itemID int64) error {
	return d.db.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error
}

// ClearByUser 清空用户购物车
func (d *CartDao) ClearByUser(ctx context.Context, userID int64) error {
	return d.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
