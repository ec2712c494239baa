package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// OK 统一成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"code":    e.SUCCESS,
		"message": e.GetMsg(e.SUCCESS),
		"data":    data,
	})
}

// Fail 统一失败响应
func Fail(c *gin.Context, status, code int) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": e.GetMsg(code),
	})
}

// FailService 业务错误映射为错误码；notFoundCode区分是哪类资源不存在
func FailService(c *gin.Context, err error, notFoundCode int) {
	switch {
	case errors.Is(err, service.ErrValidation):
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
	case errors.Is(err, service.ErrForbidden):
		Fail(c, http.StatusForbidden, e.ERROR_FORBIDDEN)
	case errors.Is(err, service.ErrNotFound):
		Fail(c, http.StatusNotFound, notFoundCode)
	case errors.Is(err, service.ErrEmailExists):
		Fail(c, http.StatusBadRequest, e.ERROR_USER_EXISTS)
	case errors.Is(err, service.ErrBadCredentials):
		Fail(c, http.StatusUnauthorized, e.ERROR_PASSWORD)
	case errors.Is(err, service.ErrSlugTaken):
		Fail(c, http.StatusBadRequest, e.ERROR_SLUG_EXISTS)
	case errors.Is(err, service.ErrCategoryInUse):
		Fail(c, http.StatusBadRequest, e.ERROR_CATEGORY_HAS_PRODUCTS)
	case errors.Is(err, service.ErrEmptyCart):
		Fail(c, http.StatusBadRequest, e.ERROR_CART_EMPTY)
	case errors.Is(err, service.ErrProductUnavailable):
		Fail(c, http.StatusBadRequest, e.ERROR_PRODUCT_UNAVAILABLE)
	case errors.Is(err, service.ErrInsufficientStock):
		Fail(c, http.StatusBadRequest, e.ERROR_STOCK_NOT_ENOUGH)
	case errors.Is(err, service.ErrNoteNotAllowed):
		Fail(c, http.StatusBadRequest, e.ERROR_NOTE_NOT_ALLOWED)
	case errors.Is(err, service.ErrInvalidOrderStatus):
		Fail(c, http.StatusBadRequest, e.ERROR_ORDER_CANNOT_CANCEL)
	case errors.Is(err, service.ErrCheckoutInProgress):
		Fail(c, http.StatusTooManyRequests, e.ERROR)
	default:
		Fail(c, http.StatusInternalServerError, e.ERROR)
	}
}

// 工具：解析失败或非法值返回0，由DAO层兜底默认分页
func toInt64(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func toInt32(s string) int32 {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil || v < 0 {
		return 0
	}
	return int32(v)
}
