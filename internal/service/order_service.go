// Package service 订单引擎：购物车转订单、库存预留与补偿回补
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/logger"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// eventPublisher 订单事件发布口，测试里注入记录器
type eventPublisher interface {
	PublishAsyncWithID(exchange, key string, body []byte, msgID string) error
}

// OrderEvent 发往MQ的订单事件载荷，消费者按需回查订单详情
type OrderEvent struct {
	EventID     string `json:"event_id"`
	OccurredAt  int64  `json:"occurred_at"`
	OrderID     int64  `json:"order_id"`
	UserID      int64  `json:"user_id"`
	OrderNumber string `json:"order_number"`
	Total       int64  `json:"total"`
}

type OrderService struct {
	db         *gorm.DB
	orderDao   *dao.OrderDao
	cartDao    *dao.CartDao
	productDao *dao.ProductDao
	redisDB    redis.UniversalClient
	publisher  eventPublisher
	pricing    Pricing
}

// NewOrderService redisDB与publisher允许为nil（测试/降级运行）
func NewOrderService(db *gorm.DB, orderDao *dao.OrderDao, cartDao *dao.CartDao, productDao *dao.ProductDao, redisDB redis.UniversalClient, publisher eventPublisher, pricing Pricing) *OrderService {
	return &OrderService{
		db:         db,
		orderDao:   orderDao,
		cartDao:    cartDao,
		productDao: productDao,
		redisDB:    redisDB,
		publisher:  publisher,
		pricing:    pricing,
	}
}

// CheckoutInput 结算入参
type CheckoutInput struct {
	ShippingAddress model.Address
	IsGift          bool
	GiftMessage     string
	PaymentMethod   string
}

func (in *CheckoutInput) validate() error {
	if in.PaymentMethod != model.PaymentMethodBankTransfer && in.PaymentMethod != model.PaymentMethodCashOnDelivery {
		return ErrValidation
	}
	a := in.ShippingAddress
	if a.FullName == "" || a.Line1 == "" || a.City == "" || a.PostalCode == "" || a.Country == "" {
		return ErrValidation
	}
	if !in.IsGift && in.GiftMessage != "" {
		return ErrValidation
	}
	return nil
}

// CreateFromCart 把购物车原子地转成订单：
// 校验每件商品可售且库存足够、按下单时刻快照条目、计算合计、
// 扣减库存、落库订单、生成订单号、清空购物车——全部在一个数据库事务内，
// 任何一件商品失败则整体回滚，不会留下半扣的库存。
func (s *OrderService) CreateFromCart(ctx context.Context, userID int64, in CheckoutInput) (*model.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	// 防重复提交：同一用户短时间只允许一个结算请求
	if s.redisDB != nil {
		lockKey := fmt.Sprintf("checkout:lock:user:%d", userID)
		locked, err := s.redisDB.SetNX(ctx, lockKey, "1", 10*time.Second).Result()
		if err == nil && !locked {
			return nil, ErrCheckoutInProgress
		}
		defer func() {
			c, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			_ = s.redisDB.Del(c, lockKey).Err()
		}()
	}

	var order *model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 读购物车
		var cartItems []*model.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id ASC").Find(&cartItems).Error; err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		var (
			subtotal  int64
			snapshots []model.OrderItem
		)
		for _, item := range cartItems {
			var product model.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				if dao.IsNotFound(err) {
					return fmt.Errorf("%w: product_id=%d", ErrProductUnavailable, item.ProductID)
				}
				return err
			}
			if !product.IsActive {
				return fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
			}

			// 条件扣减，库存不够直接失败并回滚整个事务
			ok, err := dao.DeductInventory(tx, product.ID, item.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}

			// 下单时刻的商品快照，后续商品编辑不影响历史订单
			snapshots = append(snapshots, model.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.FirstImage(),
				Price:        product.Price,
				Quantity:     item.Quantity,
				CustomNote:   item.CustomNote,
			})
			subtotal += product.Price * int64(item.Quantity)
		}

		shipping := s.pricing.Shipping(subtotal)
		tax := s.pricing.Tax(subtotal)

		order = &model.Order{
			UserID:          userID,
			Status:          model.OrderStatusPending,
			Items:           snapshots,
			Subtotal:        subtotal,
			ShippingCost:    shipping,
			Tax:             tax,
			Total:           subtotal + shipping + tax,
			ShippingAddress: in.ShippingAddress,
			IsGift:          in.IsGift,
			GiftMessage:     in.GiftMessage,
			PaymentMethod:   in.PaymentMethod,
			PaymentStatus:   model.PaymentStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// 拿到自增ID后补订单号，末尾ID保证全局唯一
		orderNumber := utils.GenerateOrderNumber(order.ID, time.Now())
		if err := tx.Model(&model.Order{}).Where("id = ?", order.ID).Update("order_number", orderNumber).Error; err != nil {
			return err
		}
		order.OrderNumber = orderNumber

		// 订单落库成功后才清空购物车
		return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	// 事务提交后异步发确认邮件事件，失败只记日志不影响订单
	s.publishEvent(mq.KeyOrderCreated, order, "create")

	return order, nil
}

// Cancel 取消订单并回补库存（补偿动作）
// 仅pending/confirmed可取消；CAS状态迁移保证并发下只有一个请求执行回补，
// 重复取消不会二次回补。商品在下单后被删除的，该条目的回补静默跳过。
func (s *OrderService) Cancel(ctx context.Context, orderID, actorID int64, actorRole string) error {
	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	// 订单归属或管理员
	if order.UserID != actorID && actorRole != model.RoleAdmin {
		return ErrForbidden
	}
	if !order.CanCancel() {
		return ErrInvalidOrderStatus
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// CAS抢状态，抢输说明已被取消或已推进到后续状态
		if err := dao.CASOrderStatus(tx, orderID, []string{model.OrderStatusPending, model.OrderStatusConfirmed}, model.OrderStatusCancelled); err != nil {
			return err
		}

		for _, item := range order.Items {
			restored, err := dao.RestoreInventory(tx, item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if !restored {
				// 商品已删除，回补尽力而为
				logger.Warn("取消订单回补库存跳过（商品已删除）", "order_id", orderID, "product_id", item.ProductID)
			}
		}
		return nil
	})
	if err != nil {
		if err == dao.ErrOrderStatusChanged {
			return ErrInvalidOrderStatus
		}
		return err
	}

	order.Status = model.OrderStatusCancelled
	s.publishEvent(mq.KeyOrderCancelled, order, "cancel")
	return nil
}

// UpdateStatus 后台改订单状态（除cancelled外不做迁移校验，后台UI负责限制可选项）
// shipped/delivered会盖时间戳；cancelled走统一取消路径以保证库存回补
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	switch status {
	case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing,
		model.OrderStatusShipped, model.OrderStatusDelivered:
	case model.OrderStatusCancelled:
		// 管理端取消和用户取消是同一条路径，避免库存悄悄漏掉
		return s.Cancel(ctx, orderID, 0, model.RoleAdmin)
	default:
		return ErrValidation
	}

	if _, err := s.orderDao.GetOrderByID(ctx, orderID); err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{"status": status}
	now := time.Now()
	switch status {
	case model.OrderStatusShipped:
		updates["shipped_at"] = &now
	case model.OrderStatusDelivered:
		updates["delivered_at"] = &now
	}
	return s.orderDao.UpdateOrder(ctx, orderID, updates)
}

// UpdateTracking 后台填运单号
func (s *OrderService) UpdateTracking(ctx context.Context, orderID int64, trackingNumber string) error {
	if trackingNumber == "" {
		return ErrValidation
	}
	if _, err := s.orderDao.GetOrderByID(ctx, orderID); err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.orderDao.UpdateOrder(ctx, orderID, map[string]interface{}{"tracking_number": trackingNumber})
}

// UpdatePaymentStatus 支付回调入口：
// paid 将 pending 订单推到 confirmed；failed 走统一取消路径回补库存
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID int64, paymentStatus, paymentIntentID string) error {
	switch paymentStatus {
	case model.PaymentStatusPending, model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusRefunded:
	default:
		return ErrValidation
	}

	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	updates := map[string]interface{}{"payment_status": paymentStatus}
	if paymentIntentID != "" {
		updates["payment_intent_id"] = paymentIntentID
	}
	if err := s.orderDao.UpdateOrder(ctx, orderID, updates); err != nil {
		return err
	}

	switch paymentStatus {
	case model.PaymentStatusPaid:
		if order.Status == model.OrderStatusPending {
			if err := s.orderDao.UpdateOrderStatus(ctx, orderID, []string{model.OrderStatusPending}, model.OrderStatusConfirmed); err != nil && err != dao.ErrOrderStatusChanged {
				return err
			}
		}
	case model.PaymentStatusFailed:
		// 支付失败的订单占着的库存必须放回去
		if err := s.Cancel(ctx, orderID, 0, model.RoleAdmin); err != nil {
			if err == ErrInvalidOrderStatus {
				// 已发货等不可取消状态，只记录，不回滚支付状态
				logger.Warn("支付失败但订单不可取消", "order_id", orderID, "status", order.Status)
				return nil
			}
			return err
		}
	}
	return nil
}

// GetOrder 订单详情，仅本人或管理员可见
func (s *OrderService) GetOrder(ctx context.Context, orderID, actorID int64, actorRole string) (*model.Order, error) {
	order, err := s.orderDao.GetOrderByID(ctx, orderID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if order.UserID != actorID && actorRole != model.RoleAdmin {
		return nil, ErrForbidden
	}
	return order, nil
}

// GetOrderByNumber 按订单号查询（后台客服查单入口）
func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	order, err := s.orderDao.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListUserOrders 用户订单列表
func (s *OrderService) ListUserOrders(ctx context.Context, userID int64, page, pageSize int32) ([]*model.Order, int64, error) {
	return s.orderDao.GetUserOrders(ctx, userID, page, pageSize)
}

// ListOrders 后台订单列表
func (s *OrderService) ListOrders(ctx context.Context, status string, page, pageSize int32) ([]*model.Order, int64, error) {
	if status != "" {
		switch status {
		case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing,
			model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled:
		default:
			return nil, 0, ErrValidation
		}
	}
	return s.orderDao.ListOrders(ctx, status, page, pageSize)
}

// publishEvent 发布订单事件（生产者池异步发布，不等待确认）
func (s *OrderService) publishEvent(key string, order *model.Order, action string) {
	if s.publisher == nil || order == nil {
		return
	}
	// 使用确定性幂等ID（不包含时间）避免重复操作产生不同事件ID
	evt := OrderEvent{
		EventID:     deterministicEventID(order.ID, order.UserID, action),
		OccurredAt:  time.Now().Unix(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	}
	b, err := json.Marshal(evt)
	if err != nil {
		logger.Warn("订单事件序列化失败", "order_id", order.ID, "err", err)
		return
	}
	// 使用事件ID作为 AMQP MessageId，实现跨队列幂等追踪
	if err := s.publisher.PublishAsyncWithID(mq.Exchange, key, b, evt.EventID); err != nil {
		logger.Warn("订单事件发布失败", "order_id", order.ID, "key", key, "err", err)
	} else {
		logger.Info("订单事件已发布", "order_id", order.ID, "key", key, "event_id", evt.EventID)
	}
}

// deterministicEventID 生成简易幂等事件ID（避免依赖外部库）
func deterministicEventID(orderID, userID int64, action string) string {
	return fmt.Sprintf("%d-%d-%s", orderID, userID, action)
}
