package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeAcker struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcker) Ack(tag uint64, multiple bool) error { a.acked = true; return nil }
func (a *fakeAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}
func (a *fakeAcker) Reject(tag uint64, requeue bool) error { return nil }

type mapDedup struct {
	claimed map[string]bool
	calls   int
}

func newMapDedup() *mapDedup {
	return &mapDedup{claimed: make(map[string]bool)}
}

func (m *mapDedup) Claim(ctx context.Context, messageID string) (bool, error) {
	m.calls++
	if m.claimed[messageID] {
		return false, nil
	}
	m.claimed[messageID] = true
	return true, nil
}

func newConsumerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Order{}, &model.OrderItem{}))
	return db
}

func orderDelivery(t *testing.T, acker *fakeAcker, orderID, userID int64, msgID string) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(service.OrderEvent{
		EventID: msgID,
		OrderID: orderID,
		UserID:  userID,
	})
	require.NoError(t, err)
	return amqp.Delivery{
		Acknowledger: acker,
		Body:         body,
		MessageId:    msgID,
		RoutingKey:   mq.KeyOrderCreated,
	}
}

// 临时DB故障重投后，消息仍可被成功处理且只发送一次
func TestHandleTransientDBErrorThenRedelivery(t *testing.T) {
	db := newConsumerTestDB(t)
	user := &model.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	order := &model.Order{UserID: user.ID, OrderNumber: "BB-TEST-0001", Status: model.OrderStatusPending, Total: 7479}
	require.NoError(t, db.Create(order).Error)

	brokenDB := newConsumerTestDB(t)
	sqlDB, err := brokenDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	dedup := newMapDedup()
	msgID := "1-1-created"

	// 第一次投递命中DB故障：NACK重投，且不得占用去重键
	acker1 := &fakeAcker{}
	handle(orderDelivery(t, acker1, order.ID, user.ID, msgID), dedup, dao.NewOrderDao(brokenDB), dao.NewUserDao(brokenDB))
	assert.True(t, acker1.nacked)
	assert.True(t, acker1.requeue)
	assert.False(t, acker1.acked)
	assert.Equal(t, 0, dedup.calls)

	// 重投后正常处理并占用去重键
	acker2 := &fakeAcker{}
	handle(orderDelivery(t, acker2, order.ID, user.ID, msgID), dedup, dao.NewOrderDao(db), dao.NewUserDao(db))
	assert.True(t, acker2.acked)
	assert.False(t, acker2.nacked)
	assert.True(t, dedup.claimed[msgID])

	// 真正的重复投递被确认跳过
	acker3 := &fakeAcker{}
	handle(orderDelivery(t, acker3, order.ID, user.ID, msgID), dedup, dao.NewOrderDao(db), dao.NewUserDao(db))
	assert.True(t, acker3.acked)
	assert.Len(t, dedup.claimed, 1)
}

func TestHandleMissingOrderDropped(t *testing.T) {
	db := newConsumerTestDB(t)
	dedup := newMapDedup()

	acker := &fakeAcker{}
	handle(orderDelivery(t, acker, 404, 1, "404-1-created"), dedup, dao.NewOrderDao(db), dao.NewUserDao(db))
	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
	assert.Equal(t, 0, dedup.calls)
}

func TestHandleMalformedBodyDeadLettered(t *testing.T) {
	db := newConsumerTestDB(t)

	acker := &fakeAcker{}
	d := amqp.Delivery{Acknowledger: acker, Body: []byte("{not json"), MessageId: "bad-1"}
	handle(d, newMapDedup(), dao.NewOrderDao(db), dao.NewUserDao(db))
	assert.True(t, acker.nacked)
	assert.False(t, acker.requeue)
}
