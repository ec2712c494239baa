package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单 HTTP 处理器
type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes 注册订单相关路由（需 JWT）
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	// 统一规范：不在 handler 内再创建分组或添加限流
	rg.GET("/orders/my", h.ListMyOrders)
	rg.GET("/orders/:id", h.GetOrder)
	rg.POST("/orders/:id/cancel", h.CancelOrder)
}

// RegisterCheckoutRoute 结算单独注册，挂更严格的限流
func (h *OrderHandler) RegisterCheckoutRoute(rg *gin.RouterGroup) {
	rg.POST("/orders", h.Checkout)
}

// RegisterAdminRoutes 后台订单管理（JWT + admin）
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.ListOrders)
	rg.GET("/orders/number/:number", h.GetOrderByNumber)
	rg.PUT("/orders/:id/status", h.UpdateStatus)
	rg.PUT("/orders/:id/tracking", h.UpdateTracking)
}

type checkoutRequest struct {
	ShippingAddress model.Address `json:"shipping_address" binding:"required"`
	IsGift          bool          `json:"is_gift"`
	GiftMessage     string        `json:"gift_message"`
	PaymentMethod   string        `json:"payment_method" binding:"required"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	order, err := h.orderService.CreateFromCart(ctx, userID, service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		IsGift:          req.IsGift,
		GiftMessage:     req.GiftMessage,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, gin.H{"order_id": order.ID, "order_number": order.OrderNumber, "total": order.Total})
}

func (h *OrderHandler) ListMyOrders(c *gin.Context) {
	userID := c.GetInt64("user_id")
	page := toInt32(c.DefaultQuery("page", "1"))
	pageSize := toInt32(c.DefaultQuery("page_size", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, total, err := h.orderService.ListUserOrders(ctx, userID, page, pageSize)
	if err != nil {
		Fail(c, http.StatusInternalServerError, e.ERROR)
		return
	}
	OK(c, gin.H{"orders": orders, "total": total})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("user_role")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.orderService.GetOrder(ctx, toInt64(c.Param("id")), userID, role)
	if err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, order)
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := c.GetString("user_role")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.orderService.Cancel(ctx, toInt64(c.Param("id")), userID, role); err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page := toInt32(c.DefaultQuery("page", "1"))
	pageSize := toInt32(c.DefaultQuery("page_size", "20"))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, total, err := h.orderService.ListOrders(ctx, c.Query("status"), page, pageSize)
	if err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, gin.H{"orders": orders, "total": total})
}

// GetOrderByNumber 后台按订单号查单（客服入口）
func (h *OrderHandler) GetOrderByNumber(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.orderService.GetOrderByNumber(ctx, c.Param("number"))
	if err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, order)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.orderService.UpdateStatus(ctx, toInt64(c.Param("id")), req.Status); err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

type updateTrackingRequest struct {
	TrackingNumber string `json:"tracking_number" binding:"required"`
}

func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	var req updateTrackingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.orderService.UpdateTracking(ctx, toInt64(c.Param("id")), req.TrackingNumber); err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, nil)
}
