package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存库；限制单连接避免:memory:多连接各自为库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	))
	return db
}

// recordingPublisher 内存事件记录器，替代真实MQ
type recordedEvent struct {
	Exchange string
	Key      string
	Body     []byte
	MsgID    string
}

type recordingPublisher struct {
	events []recordedEvent
}

func (r *recordingPublisher) PublishAsyncWithID(exchange, key string, body []byte, msgID string) error {
	r.events = append(r.events, recordedEvent{Exchange: exchange, Key: key, Body: body, MsgID: msgID})
	return nil
}

func (r *recordingPublisher) keys() []string {
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Key)
	}
	return out
}

// testEnv 打包全部service与依赖
type testEnv struct {
	db      *gorm.DB
	pub     *recordingPublisher
	orders  *OrderService
	carts   *CartService
	catalog *CatalogService
	auth    *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	authDao := dao.NewAuthDao(db)
	categoryDao := dao.NewCategoryDao(db)
	productDao := dao.NewProductDao(db, nil)
	cartDao := dao.NewCartDao(db)
	orderDao := dao.NewOrderDao(db)

	pub := &recordingPublisher{}
	pricing := DefaultPricing()

	return &testEnv{
		db:      db,
		pub:     pub,
		orders:  NewOrderService(db, orderDao, cartDao, productDao, nil, pub, pricing),
		carts:   NewCartService(cartDao, productDao, pricing),
		catalog: NewCatalogService(productDao, categoryDao),
		auth:    NewAuthService(authDao, "test-secret", 24),
	}
}

var productSeq int

// seedProduct 建一个可售商品（独立分类）
func (env *testEnv) seedProduct(t *testing.T, price int64, inventory int32) *model.Product {
	t.Helper()
	productSeq++
	cat := &model.Category{
		Name:     fmt.Sprintf("Category %d", productSeq),
		Slug:     fmt.Sprintf("category-%d", productSeq),
		IsActive: true,
	}
	require.NoError(t, env.db.Create(cat).Error)

	p := &model.Product{
		Name:       fmt.Sprintf("Basket %d", productSeq),
		Slug:       fmt.Sprintf("basket-%d", productSeq),
		Price:      price,
		CategoryID: cat.ID,
		Images:     model.StringList{fmt.Sprintf("https://img.example.com/%d.jpg", productSeq)},
		Inventory:  inventory,
		IsActive:   true,
	}
	require.NoError(t, env.db.Create(p).Error)
	return p
}

// addToCart 直接落一条购物车行
func (env *testEnv) addToCart(t *testing.T, userID, productID int64, quantity int32) *model.CartItem {
	t.Helper()
	item := &model.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	require.NoError(t, env.db.Create(item).Error)
	return item
}

func (env *testEnv) productInventory(t *testing.T, productID int64) int32 {
	t.Helper()
	var p model.Product
	require.NoError(t, env.db.First(&p, productID).Error)
	return p.Inventory
}

func (env *testEnv) cartCount(t *testing.T, userID int64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.db.Model(&model.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func (env *testEnv) reloadOrder(t *testing.T, orderID int64) *model.Order {
	t.Helper()
	var o model.Order
	require.NoError(t, env.db.Preload("Items").First(&o, orderID).Error)
	return &o
}

// validCheckout 合法结算入参
func validCheckout() CheckoutInput {
	return CheckoutInput{
		ShippingAddress: model.Address{
			FullName:   "Ada Wong",
			Line1:      "12 Harbor Rd",
			City:       "Springfield",
			PostalCode: "62704",
			Country:    "US",
		},
		PaymentMethod: model.PaymentMethodCashOnDelivery,
	}
}

func testCtx() context.Context {
	return context.Background()
}
