package service

import (
	"testing"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesQuantity(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 10)

	first, err := env.carts.AddItem(testCtx(), 1, p.ID, 2, "")
	require.NoError(t, err)

	second, err := env.carts.AddItem(testCtx(), 1, p.ID, 3, "")
	require.NoError(t, err)

	// 同商品合并为一行
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int32(5), second.Quantity)
	assert.Equal(t, int64(1), env.cartCount(t, 1))
}

func TestAddItemChecksMergedInventory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)

	_, err := env.carts.AddItem(testCtx(), 1, p.ID, 3, "")
	require.NoError(t, err)

	// 3+3 > 5，合并后的期望数量超库存
	_, err = env.carts.AddItem(testCtx(), 1, p.ID, 3, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var item model.CartItem
	require.NoError(t, env.db.Where("user_id = ? AND product_id = ?", 1, p.ID).First(&item).Error)
	assert.Equal(t, int32(3), item.Quantity)
}

func TestAddItemQuantityValidation(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)

	_, err := env.carts.AddItem(testCtx(), 1, p.ID, 0, "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.carts.AddItem(testCtx(), 1, p.ID, 6, "")
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestAddItemInactiveOrMissingProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)
	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("is_active", false).Error)

	_, err := env.carts.AddItem(testCtx(), 1, p.ID, 1, "")
	assert.ErrorIs(t, err, ErrProductUnavailable)

	_, err = env.carts.AddItem(testCtx(), 1, 9999, 1, "")
	assert.ErrorIs(t, err, ErrProductUnavailable)
}

func TestAddItemCustomNote(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)

	// 商品未开启定制留言
	_, err := env.carts.AddItem(testCtx(), 1, p.ID, 1, "To my dearest")
	assert.ErrorIs(t, err, ErrNoteNotAllowed)

	require.NoError(t, env.db.Model(&model.Product{}).Where("id = ?", p.ID).Update("allow_custom_note", true).Error)
	item, err := env.carts.AddItem(testCtx(), 1, p.ID, 1, "To my dearest")
	require.NoError(t, err)
	assert.Equal(t, "To my dearest", item.CustomNote)
}

func TestUpdateQuantityZeroDeletesLine(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)
	item, err := env.carts.AddItem(testCtx(), 1, p.ID, 2, "")
	require.NoError(t, err)

	require.NoError(t, env.carts.UpdateQuantity(testCtx(), 1, item.ID, 0))
	assert.Zero(t, env.cartCount(t, 1))
}

func TestUpdateQuantityRechecksInventory(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)
	item, err := env.carts.AddItem(testCtx(), 1, p.ID, 2, "")
	require.NoError(t, err)

	err = env.carts.UpdateQuantity(testCtx(), 1, item.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	require.NoError(t, env.carts.UpdateQuantity(testCtx(), 1, item.ID, 5))
	var stored model.CartItem
	require.NoError(t, env.db.First(&stored, item.ID).Error)
	assert.Equal(t, int32(5), stored.Quantity)
}

func TestCartScopedToOwner(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, 2000, 5)
	item, err := env.carts.AddItem(testCtx(), 1, p.ID, 2, "")
	require.NoError(t, err)

	// 别人的购物车行不可见也不可删
	err = env.carts.UpdateQuantity(testCtx(), 2, item.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	err = env.carts.RemoveItem(testCtx(), 2, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.carts.RemoveItem(testCtx(), 1, item.ID))
	assert.Zero(t, env.cartCount(t, 1))
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)
	pa := env.seedProduct(t, 2000, 5)
	pb := env.seedProduct(t, 3000, 5)
	_, err := env.carts.AddItem(testCtx(), 1, pa.ID, 1, "")
	require.NoError(t, err)
	_, err = env.carts.AddItem(testCtx(), 1, pb.ID, 1, "")
	require.NoError(t, err)
	_, err = env.carts.AddItem(testCtx(), 2, pa.ID, 1, "")
	require.NoError(t, err)

	require.NoError(t, env.carts.Clear(testCtx(), 1))
	assert.Zero(t, env.cartCount(t, 1))
	// 只清自己的
	assert.Equal(t, int64(1), env.cartCount(t, 2))
}

func TestGetCartTotals(t *testing.T) {
	env := newTestEnv(t)
	pa := env.seedProduct(t, 2500, 10)
	pb := env.seedProduct(t, 1000, 10)
	_, err := env.carts.AddItem(testCtx(), 1, pa.ID, 2, "")
	require.NoError(t, err)
	_, err = env.carts.AddItem(testCtx(), 1, pb.ID, 1, "")
	require.NoError(t, err)

	view, err := env.carts.GetCart(testCtx(), 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, int64(6000), view.Subtotal)
	assert.Equal(t, int64(999), view.ShippingCost)
	assert.Equal(t, int64(480), view.Tax)
	assert.Equal(t, int64(7479), view.Total)
}

func TestGetCartKeepsDeletedProductLines(t *testing.T) {
	env := newTestEnv(t)
	pa := env.seedProduct(t, 2500, 10)
	pb := env.seedProduct(t, 1000, 10)
	_, err := env.carts.AddItem(testCtx(), 1, pa.ID, 1, "")
	require.NoError(t, err)
	_, err = env.carts.AddItem(testCtx(), 1, pb.ID, 1, "")
	require.NoError(t, err)

	require.NoError(t, env.db.Delete(&model.Product{}, pb.ID).Error)

	view, err := env.carts.GetCart(testCtx(), 1)
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	// 已删除商品的行保留展示但不计入小计
	assert.Nil(t, view.Lines[1].Product)
	assert.Equal(t, int64(2500), view.Subtotal)
}
