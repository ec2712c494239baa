package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	cartService *service.CartService
}

func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes 注册购物车路由（需 JWT）
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cart", h.GetCart)
	rg.POST("/cart/items", h.AddItem)
	rg.PUT("/cart/items/:id", h.UpdateQuantity)
	rg.DELETE("/cart/items/:id", h.RemoveItem)
	rg.DELETE("/cart", h.Clear)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.GetInt64("user_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	view, err := h.cartService.GetCart(ctx, userID)
	if err != nil {
		Fail(c, http.StatusInternalServerError, e.ERROR)
		return
	}
	OK(c, view)
}

type addItemRequest struct {
	ProductID  int64  `json:"product_id" binding:"required"`
	Quantity   int32  `json:"quantity" binding:"required"`
	CustomNote string `json:"custom_note"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.cartService.AddItem(ctx, userID, req.ProductID, req.Quantity, req.CustomNote)
	if err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, item)
}

type updateQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := c.GetInt64("user_id")
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.cartService.UpdateQuantity(ctx, userID, toInt64(c.Param("id")), req.Quantity); err != nil {
		FailService(c, err, e.ERROR_CART_ITEM_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := c.GetInt64("user_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.cartService.RemoveItem(ctx, userID, toInt64(c.Param("id"))); err != nil {
		FailService(c, err, e.ERROR_CART_ITEM_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

func (h *CartHandler) Clear(c *gin.Context) {
	userID := c.GetInt64("user_id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.cartService.Clear(ctx, userID); err != nil {
		Fail(c, http.StatusInternalServerError, e.ERROR)
		return
	}
	OK(c, nil)
}
