package service

import "errors"

// 业务错误统一在这里定义，handler层映射为错误码
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrForbidden          = errors.New("无权执行该操作")
	ErrValidation         = errors.New("请求参数错误")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrBadCredentials     = errors.New("邮箱或密码错误")
	ErrSlugTaken          = errors.New("slug已被占用")
	ErrCategoryInUse      = errors.New("分类下仍有商品，无法删除")
	ErrEmptyCart          = errors.New("购物车为空")
	ErrProductUnavailable = errors.New("商品已删除或已下架")
	ErrInsufficientStock  = errors.New("库存不足")
	ErrNoteNotAllowed     = errors.New("该商品不支持定制留言")
	ErrInvalidOrderStatus = errors.New("当前状态不允许该操作")
	ErrCheckoutInProgress = errors.New("有结算请求正在处理中，请稍后")
)
