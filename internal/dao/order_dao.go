package dao

import (
	"context"
	"errors"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"gorm.io/gorm"
)

type OrderDao struct {
	db *gorm.DB
}

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{
		db: db,
	}
}

var ErrOrderStatusChanged = errors.New("订单状态已变更")

// GetOrderByID 根据ID获取订单（含条目快照）
func (d *OrderDao) GetOrderByID(ctx context.Context, orderID int64) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").Where("id = ?", orderID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNumber 根据订单号获取订单
func (d *OrderDao) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := d.db.WithContext(ctx).Preload("Items").Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserOrders 获取用户订单列表
func (d *OrderDao) GetUserOrders(ctx context.Context, userID int64, page, pageSize int32) ([]*model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	var orders []*model.Order
	var total int64
	offset := (page - 1) * pageSize

	// 获取总数
	if err := d.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 获取分页数据
	err := d.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(int(pageSize)).
		Offset(int(offset)).
		Find(&orders).Error

	return orders, total, err
}

// ListOrders 后台订单列表，status为空表示全部
func (d *OrderDao) ListOrders(ctx context.Context, status string, page, pageSize int32) ([]*model.Order, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	q := d.db.WithContext(ctx).Model(&model.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*model.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(int(pageSize)).
		Offset(int((page - 1) * pageSize)).
		Find(&orders).Error

	return orders, total, err
}

// UpdateOrderStatus CAS更新订单状态，当前状态不在fromStatuses内则失败
func (d *OrderDao) UpdateOrderStatus(ctx context.Context, orderID int64, fromStatuses []string, toStatus string) error {
	return CASOrderStatus(d.db.WithContext(ctx), orderID, fromStatuses, toStatus)
}

// CASOrderStatus 事务内的CAS状态迁移，RowsAffected为0代表并发修改抢先
func CASOrderStatus(tx *gorm.DB, orderID int64, fromStatuses []string, toStatus string) error {
	result := tx.Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, fromStatuses).
		Update("status", toStatus)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusChanged // 统一错误类型
	}
	return nil
}

// UpdateOrder 更新订单字段
func (d *OrderDao) UpdateOrder(ctx context.Context, orderID int64, updates map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
