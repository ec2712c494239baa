package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// ProductHandler 商品 HTTP 处理器
type ProductHandler struct {
	catalogService *service.CatalogService
}

func NewProductHandler(catalogService *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// RegisterPublicRoutes 店面只读路由（无需JWT）
func (h *ProductHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/products", h.ListProducts)
	rg.GET("/products/:id", h.GetProduct)
	rg.GET("/products/slug/:slug", h.GetProductBySlug)
}

// RegisterAdminRoutes 后台变更路由（JWT + admin）
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/products", h.CreateProduct)
	rg.PUT("/products/:id", h.UpdateProduct)
	rg.DELETE("/products/:id", h.DeleteProduct)
	rg.PATCH("/products/:id/inventory", h.SetInventory)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	filter := dao.ProductFilter{
		CategoryID: toInt64(c.Query("category_id")),
		Tag:        c.Query("tag"),
		ActiveOnly: c.DefaultQuery("all", "0") != "1",
		Page:       toInt32(c.DefaultQuery("page", "1")),
		PageSize:   toInt32(c.DefaultQuery("page_size", "20")),
	}
	products, total, err := h.catalogService.ListProducts(ctx, filter)
	if err != nil {
		Fail(c, http.StatusInternalServerError, e.ERROR)
		return
	}
	OK(c, gin.H{"products": products, "total": total})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.catalogService.GetProduct(ctx, toInt64(c.Param("id")))
	if err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, product)
}

func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.catalogService.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, product)
}

type productRequest struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	Price           int64    `json:"price"`
	CompareAtPrice  *int64   `json:"compare_at_price"`
	CategoryID      int64    `json:"category_id"`
	Images          []string `json:"images"`
	Inventory       int32    `json:"inventory"`
	IsActive        *bool    `json:"is_active"`
	Tags            []string `json:"tags"`
	AllowCustomNote *bool    `json:"allow_custom_note"`
}

func (r *productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		Price:           r.Price,
		CompareAtPrice:  r.CompareAtPrice,
		CategoryID:      r.CategoryID,
		Images:          r.Images,
		Inventory:       r.Inventory,
		IsActive:        r.IsActive,
		Tags:            r.Tags,
		AllowCustomNote: r.AllowCustomNote,
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.catalogService.CreateProduct(ctx, req.toInput())
	if err != nil {
		FailService(c, err, e.ERROR_CATEGORY_NOT_EXISTS)
		return
	}
	OK(c, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalogService.UpdateProduct(ctx, toInt64(c.Param("id")), req.toInput()); err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalogService.DeleteProduct(ctx, toInt64(c.Param("id"))); err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

type inventoryRequest struct {
	Inventory int32 `json:"inventory"`
}

func (h *ProductHandler) SetInventory(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalogService.SetInventory(ctx, toInt64(c.Param("id")), req.Inventory); err != nil {
		FailService(c, err, e.ERROR_PRODUCT_NOT_EXISTS)
		return
	}
	OK(c, nil)
}
