package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao/mysql"
	redisdao "github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao/redis"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/app"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
)

const (
	emailQueue = "order.events.email"
	// 去重键保留时长，超过后同一消息允许重新投递
	dedupTTL = 24 * time.Hour
)

func main() {
	cfg := app.BootstrapApp()

	db, err := mysql.InitDB(&cfg.Database.Mysql)
	if err != nil {
		logger.Fatal("数据库初始化失败", slog.Any("error", err))
	}

	redisDB, err := redisdao.InitRedis(&cfg.Database.Redis)
	if err != nil {
		logger.Fatal("Redis初始化失败", slog.Any("error", err))
	}

	orderDao := dao.NewOrderDao(db)
	userDao := dao.NewUserDao(db)

	// 消费失败的消息进死信交换机，由告警消费者兜底
	queueArgs := amqp.Table{"x-dead-letter-exchange": mq.DLQExchange}
	conn, ch, msgs, err := mq.NewConsumerChannel(&cfg.MQ, emailQueue, "order.*", mq.Exchange, true, cfg.MQ.ConsumerPrefetch, queueArgs)
	if err != nil {
		logger.Fatal("RabbitMQ消费者初始化失败", slog.Any("error", err))
	}
	defer mq.CloseConsumer(conn, ch)

	slog.Info("邮件消费者启动", slog.String("queue", emailQueue))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				slog.Error("消息通道已关闭，退出")
				return
			}
			handle(d, redisDedup{rdb: redisDB}, orderDao, userDao)
		case sig := <-quit:
			slog.Info("收到退出信号", slog.String("signal", sig.String()))
			return
		}
	}
}

// dedupStore 幂等去重存储，Claim返回false表示该消息已被处理过
type dedupStore interface {
	Claim(ctx context.Context, messageID string) (bool, error)
}

type redisDedup struct {
	rdb redis.UniversalClient
}

func (r redisDedup) Claim(ctx context.Context, messageID string) (bool, error) {
	return r.rdb.SetNX(ctx, "consumed:email:"+messageID, 1, dedupTTL).Result()
}

func handle(d amqp.Delivery, dedup dedupStore, orderDao *dao.OrderDao, userDao *dao.UserDao) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var evt service.OrderEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		slog.Error("消息解析失败，转入死信", slog.Any("error", err))
		_ = d.Nack(false, false)
		return
	}

	order, err := orderDao.GetOrderByID(ctx, evt.OrderID)
	if err != nil {
		if dao.IsNotFound(err) {
			slog.Warn("订单不存在，丢弃消息", slog.Int64("order_id", evt.OrderID))
			_ = d.Ack(false)
			return
		}
		slog.Error("查询订单失败，稍后重试", slog.Any("error", err))
		_ = d.Nack(false, true)
		return
	}

	user, err := userDao.GetUserByID(ctx, order.UserID)
	if err != nil {
		if dao.IsNotFound(err) {
			slog.Warn("用户不存在，丢弃消息", slog.Int64("user_id", order.UserID))
			_ = d.Ack(false)
			return
		}
		slog.Error("查询用户失败，稍后重试", slog.Any("error", err))
		_ = d.Nack(false, true)
		return
	}

	// 去重键在DB读取全部成功后才占用，临时失败重投时不会被自己挡掉
	if d.MessageId != "" {
		ok, err := dedup.Claim(ctx, d.MessageId)
		if err == nil && !ok {
			slog.Info("重复消息，跳过", slog.String("message_id", d.MessageId))
			_ = d.Ack(false)
			return
		}
	}

	sendOrderEmail(d.RoutingKey, user, order)
	_ = d.Ack(false)
}

// sendOrderEmail 模拟邮件发送，真实环境替换为邮件服务商SDK
func sendOrderEmail(routingKey string, user *model.User, order *model.Order) {
	var subject string
	switch routingKey {
	case mq.KeyOrderCreated:
		subject = "您的订单已创建"
	case mq.KeyOrderCancelled:
		subject = "您的订单已取消"
	default:
		subject = "订单状态更新"
	}
	slog.Info("发送邮件",
		slog.String("to", user.Email),
		slog.String("subject", subject),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("total", order.Total),
	)
}
