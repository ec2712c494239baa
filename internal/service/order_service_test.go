package service

import (
	"strings"
	"testing"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFromCartTotalsAndSnapshot(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)

	pa := env.seedProduct(t, 2500, 10)
	pb := env.seedProduct(t, 1000, 5)
	env.addToCart(t, userID, pa.ID, 2)
	env.addToCart(t, userID, pb.ID, 1)

	order, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.NoError(t, err)

	// 2*2500 + 1*1000 = 6000，未到免运费门槛
	assert.Equal(t, int64(6000), order.Subtotal)
	assert.Equal(t, int64(999), order.ShippingCost)
	assert.Equal(t, int64(480), order.Tax)
	assert.Equal(t, int64(7479), order.Total)
	assert.Equal(t, order.Subtotal+order.ShippingCost+order.Tax, order.Total)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)

	// 订单号落库且带前缀
	require.NotEmpty(t, order.OrderNumber)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "BB-"))
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)

	// 条目为下单时刻快照
	require.Len(t, stored.Items, 2)
	assert.Equal(t, pa.Name, stored.Items[0].ProductName)
	assert.Equal(t, int64(2500), stored.Items[0].Price)
	assert.Equal(t, int32(2), stored.Items[0].Quantity)
	assert.Equal(t, pa.FirstImage(), stored.Items[0].ProductImage)

	// 库存已扣、购物车已清
	assert.Equal(t, int32(8), env.productInventory(t, pa.ID))
	assert.Equal(t, int32(4), env.productInventory(t, pb.ID))
	assert.Zero(t, env.cartCount(t, userID))

	// 事件已发布
	require.Len(t, env.pub.events, 1)
	assert.Equal(t, mq.KeyOrderCreated, env.pub.events[0].Key)
	assert.Equal(t, mq.Exchange, env.pub.events[0].Exchange)
	assert.NotEmpty(t, env.pub.events[0].MsgID)
}

func TestCreateFromCartSnapshotSurvivesProductEdit(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)
	p := env.seedProduct(t, 3000, 10)
	env.addToCart(t, userID, p.ID, 1)

	order, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.NoError(t, err)

	// 改价不影响历史订单
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("price", 9999).Error)
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, int64(3000), stored.Items[0].Price)
	assert.Equal(t, int64(3000), stored.Subtotal)
}

func TestCreateFromCartFreeShippingBoundary(t *testing.T) {
	env := newTestEnv(t)

	// 小计9999：差一分，仍收运费
	below := env.seedProduct(t, 9999, 10)
	env.addToCart(t, 1, below.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)
	assert.Equal(t, int64(999), order.ShippingCost)
	assert.Equal(t, int64(800), order.Tax) // round(9999*0.08)

	// 小计10000：恰好免运费
	at := env.seedProduct(t, 10000, 10)
	env.addToCart(t, 2, at.ID, 1)
	order, err = env.orders.CreateFromCart(testCtx(), 2, validCheckout())
	require.NoError(t, err)
	assert.Zero(t, order.ShippingCost)
	assert.Equal(t, int64(800), order.Tax)
	assert.Equal(t, int64(10800), order.Total)
}

func TestCreateFromCartEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCreateFromCartInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)

	ok := env.seedProduct(t, 2000, 10)
	scarce := env.seedProduct(t, 3000, 1)
	env.addToCart(t, userID, ok.ID, 2)
	env.addToCart(t, userID, scarce.ID, 3)

	_, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.ErrorIs(t, err, ErrInsufficientStock)

	// 第一件已扣的库存必须回滚，不能留下半扣状态
	assert.Equal(t, int32(10), env.productInventory(t, ok.ID))
	assert.Equal(t, int32(1), env.productInventory(t, scarce.ID))
	assert.Equal(t, int64(2), env.cartCount(t, userID))

	var orderCount int64
	require.NoError(t, env.db.Model(&model.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
	assert.Empty(t, env.pub.events)
}

func TestCreateFromCartInactiveProduct(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)
	p := env.seedProduct(t, 2000, 10)
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)
	env.addToCart(t, userID, p.ID, 1)

	_, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, int32(10), env.productInventory(t, p.ID))
}

func TestCreateFromCartValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)

	in := validCheckout()
	in.PaymentMethod = "credit_card"
	_, err := env.orders.CreateFromCart(testCtx(), 1, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = validCheckout()
	in.ShippingAddress.PostalCode = ""
	_, err = env.orders.CreateFromCart(testCtx(), 1, in)
	assert.ErrorIs(t, err, ErrValidation)

	// 非礼品不允许带礼品留言
	in = validCheckout()
	in.GiftMessage = "Happy birthday"
	_, err = env.orders.CreateFromCart(testCtx(), 1, in)
	assert.ErrorIs(t, err, ErrValidation)

	// 礼品订单可以带
	in = validCheckout()
	in.IsGift = true
	in.GiftMessage = "Happy birthday"
	order, err := env.orders.CreateFromCart(testCtx(), 1, in)
	require.NoError(t, err)
	assert.True(t, order.IsGift)
	assert.Equal(t, "Happy birthday", order.GiftMessage)
}

func TestCancelRestoresInventory(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, userID, p.ID, 3)

	order, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.NoError(t, err)
	require.Equal(t, int32(7), env.productInventory(t, p.ID))

	require.NoError(t, env.orders.Cancel(testCtx(), order.ID, userID, model.RoleCustomer))
	assert.Equal(t, int32(10), env.productInventory(t, p.ID))
	assert.Equal(t, model.OrderStatusCancelled, env.reloadOrder(t, order.ID).Status)

	keys := env.pub.keys()
	require.Len(t, keys, 2)
	assert.Equal(t, mq.KeyOrderCancelled, keys[1])
}

func TestCancelTwiceRestoresOnce(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, userID, p.ID, 3)

	order, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.NoError(t, err)

	require.NoError(t, env.orders.Cancel(testCtx(), order.ID, userID, model.RoleCustomer))
	err = env.orders.Cancel(testCtx(), order.ID, userID, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)

	// 重复取消不能二次回补
	assert.Equal(t, int32(10), env.productInventory(t, p.ID))
}

func TestCancelForbiddenForStranger(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)

	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	err = env.orders.Cancel(testCtx(), order.ID, 99, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	// 管理员可以代客取消
	require.NoError(t, env.orders.Cancel(testCtx(), order.ID, 99, model.RoleAdmin))
}

func TestCancelShippedOrderFails(t *testing.T) {
	env := newTestEnv(t)
	userID := int64(1)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, userID, p.ID, 2)

	order, err := env.orders.CreateFromCart(testCtx(), userID, validCheckout())
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.Order{}).Where("id = ?", order.ID).Update("status", model.OrderStatusShipped).Error)

	err = env.orders.Cancel(testCtx(), order.ID, userID, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	assert.Equal(t, int32(8), env.productInventory(t, p.ID))
}

func TestCancelMissingOrder(t *testing.T) {
	env := newTestEnv(t)
	err := env.orders.Cancel(testCtx(), 12345, 1, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusStampsTimestamps(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	require.NoError(t, env.orders.UpdateStatus(testCtx(), order.ID, model.OrderStatusShipped))
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, model.OrderStatusShipped, stored.Status)
	require.NotNil(t, stored.ShippedAt)
	assert.Nil(t, stored.DeliveredAt)

	require.NoError(t, env.orders.UpdateStatus(testCtx(), order.ID, model.OrderStatusDelivered))
	stored = env.reloadOrder(t, order.ID)
	assert.Equal(t, model.OrderStatusDelivered, stored.Status)
	assert.NotNil(t, stored.DeliveredAt)
}

func TestUpdateStatusCancelledRestoresInventory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 4)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)
	require.Equal(t, int32(6), env.productInventory(t, p.ID))

	// 后台取消和用户取消是同一条路径，库存必须回来
	require.NoError(t, env.orders.UpdateStatus(testCtx(), order.ID, model.OrderStatusCancelled))
	assert.Equal(t, int32(10), env.productInventory(t, p.ID))
	assert.Equal(t, model.OrderStatusCancelled, env.reloadOrder(t, order.ID).Status)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	err := env.orders.UpdateStatus(testCtx(), 1, "archived")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePaymentStatusPaidConfirms(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	require.NoError(t, env.orders.UpdatePaymentStatus(testCtx(), order.ID, model.PaymentStatusPaid, "pi_123"))
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, model.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, "pi_123", stored.PaymentIntentID)
	assert.Equal(t, model.OrderStatusConfirmed, stored.Status)
}

func TestUpdatePaymentStatusFailedRestoresInventory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 2)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)
	require.Equal(t, int32(8), env.productInventory(t, p.ID))

	require.NoError(t, env.orders.UpdatePaymentStatus(testCtx(), order.ID, model.PaymentStatusFailed, ""))
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, model.PaymentStatusFailed, stored.PaymentStatus)
	assert.Equal(t, model.OrderStatusCancelled, stored.Status)
	assert.Equal(t, int32(10), env.productInventory(t, p.ID))
}

func TestUpdatePaymentStatusFailedOnShippedOrder(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&model.Order{}).Where("id = ?", order.ID).Update("status", model.OrderStatusShipped).Error)

	// 已发货订单不可取消，只记录支付状态
	require.NoError(t, env.orders.UpdatePaymentStatus(testCtx(), order.ID, model.PaymentStatusFailed, ""))
	stored := env.reloadOrder(t, order.ID)
	assert.Equal(t, model.OrderStatusShipped, stored.Status)
	assert.Equal(t, model.PaymentStatusFailed, stored.PaymentStatus)
}

func TestUpdatePaymentStatusRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	err := env.orders.UpdatePaymentStatus(testCtx(), 1, "declined", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetOrderOwnership(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	got, err := env.orders.GetOrder(testCtx(), order.ID, 1, model.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = env.orders.GetOrder(testCtx(), order.ID, 2, model.RoleCustomer)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.orders.GetOrder(testCtx(), order.ID, 2, model.RoleAdmin)
	assert.NoError(t, err)
}

func TestGetOrderByNumber(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	order, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	got, err := env.orders.GetOrderByNumber(testCtx(), order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = env.orders.GetOrderByNumber(testCtx(), "BB-UNKNOWN")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersStatusFilter(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)
	env.addToCart(t, 1, p.ID, 1)
	_, err := env.orders.CreateFromCart(testCtx(), 1, validCheckout())
	require.NoError(t, err)

	orders, total, err := env.orders.ListOrders(testCtx(), model.OrderStatusPending, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)

	_, _, err = env.orders.ListOrders(testCtx(), "bogus", 1, 20)
	assert.ErrorIs(t, err, ErrValidation)
}
