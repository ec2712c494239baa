package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/mq"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/app"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/logger"
	"github.com/streadway/amqp"
)

// 死信告警文件，运维侧监控该文件即可发现堆积
const alarmFile = "logs/dlq_alarm.log"

func main() {
	cfg := app.BootstrapApp()

	// 死信队列由拓扑声明负责创建，这里只消费，不声明交换机
	conn, ch, msgs, err := mq.NewConsumerChannel(&cfg.MQ, mq.DLQQueue, "", "", true, cfg.MQ.ConsumerPrefetch, nil)
	if err != nil {
		logger.Fatal("RabbitMQ消费者初始化失败", slog.Any("error", err))
	}
	defer mq.CloseConsumer(conn, ch)

	f, err := os.OpenFile(alarmFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		logger.Fatal("打开告警文件失败", slog.Any("error", err))
	}
	defer f.Close()

	slog.Info("死信消费者启动", slog.String("queue", mq.DLQQueue))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				slog.Error("消息通道已关闭，退出")
				return
			}
			record(f, d)
			_ = d.Ack(false)
		case sig := <-quit:
			slog.Info("收到退出信号", slog.String("signal", sig.String()))
			return
		}
	}
}

// record 落盘一条死信记录，保留原始路由键与消息体便于人工排查
func record(f *os.File, d amqp.Delivery) {
	line := fmt.Sprintf("%s\tkey=%s\tmessage_id=%s\tbody=%s\n",
		time.Now().Format(time.RFC3339), d.RoutingKey, d.MessageId, string(d.Body))
	if _, err := f.WriteString(line); err != nil {
		slog.Error("写入告警文件失败", slog.Any("error", err))
	}
	slog.Warn("收到死信消息",
		slog.String("routing_key", d.RoutingKey),
		slog.String("message_id", d.MessageId),
	)
}
