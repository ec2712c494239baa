package v1

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付回调处理器
type PaymentHandler struct {
	orderService  *service.OrderService
	webhookSecret string
}

func NewPaymentHandler(orderService *service.OrderService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{orderService: orderService, webhookSecret: webhookSecret}
}

// RegisterRoutes 回调路由不走 JWT，靠共享密钥鉴权
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/payment", h.HandleWebhook)
}

type paymentWebhookRequest struct {
	OrderID         int64  `json:"order_id" binding:"required"`
	PaymentStatus   string `json:"payment_status" binding:"required"`
	PaymentIntentID string `json:"payment_intent_id"`
}

func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	secret := c.GetHeader("X-Webhook-Secret")
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.webhookSecret)) != 1 {
		Fail(c, http.StatusUnauthorized, e.ERROR_AUTH)
		return
	}

	var req paymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.orderService.UpdatePaymentStatus(ctx, req.OrderID, req.PaymentStatus, req.PaymentIntentID); err != nil {
		FailService(c, err, e.ERROR_ORDER_NOT_EXISTS)
		return
	}
	OK(c, nil)
}
