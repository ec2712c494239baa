package e

// 错误码定义
const (
	SUCCESS        = 0
	ERROR          = 1
	INVALID_PARAMS = 2

	ERROR_AUTH_CHECK_TOKEN_FAIL    = 10001
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT = 10002
	ERROR_AUTH_TOKEN               = 10003
	ERROR_AUTH                     = 10004
	ERROR_FORBIDDEN                = 10005

	ERROR_USER_EXISTS     = 20001
	ERROR_USER_NOT_EXISTS = 20002
	ERROR_PASSWORD        = 20003

	ERROR_PRODUCT_NOT_EXISTS    = 30001
	ERROR_STOCK_NOT_ENOUGH      = 30002
	ERROR_PRODUCT_UNAVAILABLE   = 30003
	ERROR_SLUG_EXISTS           = 30004
	ERROR_CATEGORY_NOT_EXISTS   = 30005
	ERROR_CATEGORY_HAS_PRODUCTS = 30006

	ERROR_CART_EMPTY           = 40001
	ERROR_CART_ITEM_NOT_EXISTS = 40002
	ERROR_NOTE_NOT_ALLOWED     = 40003

	ERROR_ORDER_NOT_EXISTS     = 50001
	ERROR_ORDER_STATUS_CHANGED = 50002
	ERROR_ORDER_CANNOT_CANCEL  = 50003
)

var MsgFlags = map[int]string{
	SUCCESS:        "成功",
	ERROR:          "失败",
	INVALID_PARAMS: "请求参数错误",

	ERROR_AUTH_CHECK_TOKEN_FAIL:    "Token验证失败",
	ERROR_AUTH_CHECK_TOKEN_TIMEOUT: "Token已超时",
	ERROR_AUTH_TOKEN:               "Token生成失败",
	ERROR_AUTH:                     "认证失败",
	ERROR_FORBIDDEN:                "无权执行该操作",

	ERROR_USER_EXISTS:     "用户已存在",
	ERROR_USER_NOT_EXISTS: "用户不存在",
	ERROR_PASSWORD:        "密码错误",

	ERROR_PRODUCT_NOT_EXISTS:    "商品不存在",
	ERROR_STOCK_NOT_ENOUGH:      "库存不足",
	ERROR_PRODUCT_UNAVAILABLE:   "商品已下架",
	ERROR_SLUG_EXISTS:           "slug已被占用",
	ERROR_CATEGORY_NOT_EXISTS:   "分类不存在",
	ERROR_CATEGORY_HAS_PRODUCTS: "分类下仍有商品，无法删除",

	ERROR_CART_EMPTY:           "购物车为空",
	ERROR_CART_ITEM_NOT_EXISTS: "购物车条目不存在",
	ERROR_NOTE_NOT_ALLOWED:     "该商品不支持定制留言",

	ERROR_ORDER_NOT_EXISTS:     "订单不存在",
	ERROR_ORDER_STATUS_CHANGED: "订单状态已变更",
	ERROR_ORDER_CANNOT_CANCEL:  "当前状态不允许取消订单",
}

func GetMsg(code int) string {
	msg, ok := MsgFlags[code]
	if ok {
		return msg
	}
	return MsgFlags[ERROR]
}
