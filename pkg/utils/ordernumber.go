package utils

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const orderNumberPrefix = "BB"

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderNumber 生成订单号：BB-<毫秒时间戳base36>-<4位随机base36>-<订单ID base36>
// 末尾的订单ID保证了时间戳+随机段碰撞时依然全局唯一
func GenerateOrderNumber(orderID int64, now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)

	var sb strings.Builder
	for i := 0; i < 4; i++ {
		sb.WriteByte(base36Chars[rand.Intn(len(base36Chars))])
	}

	id := strconv.FormatInt(orderID, 36)

	return strings.ToUpper(orderNumberPrefix + "-" + ts + "-" + sb.String() + "-" + id)
}
