package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/service"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/pkg/e"
	"github.com/gin-gonic/gin"
)

// CategoryHandler 分类 HTTP 处理器
type CategoryHandler struct {
	catalogService *service.CatalogService
}

func NewCategoryHandler(catalogService *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// RegisterPublicRoutes 店面导航用的分类列表
func (h *CategoryHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/categories", h.ListCategories)
}

// RegisterAdminRoutes 后台分类管理
func (h *CategoryHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/categories", h.CreateCategory)
	rg.PUT("/categories/:id", h.UpdateCategory)
	rg.DELETE("/categories/:id", h.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.catalogService.ListCategories(ctx, c.DefaultQuery("all", "0") != "1")
	if err != nil {
		Fail(c, http.StatusInternalServerError, e.ERROR)
		return
	}
	OK(c, categories)
}

type categoryRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  *bool  `json:"is_active"`
	SortOrder *int   `json:"sort_order"`
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	category, err := h.catalogService.CreateCategory(ctx, service.CategoryInput{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		FailService(c, err, e.ERROR_CATEGORY_NOT_EXISTS)
		return
	}
	OK(c, category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, e.INVALID_PARAMS)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.catalogService.UpdateCategory(ctx, toInt64(c.Param("id")), service.CategoryInput{
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		FailService(c, err, e.ERROR_CATEGORY_NOT_EXISTS)
		return
	}
	OK(c, nil)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.catalogService.DeleteCategory(ctx, toInt64(c.Param("id"))); err != nil {
		FailService(c, err, e.ERROR_CATEGORY_NOT_EXISTS)
		return
	}
	OK(c, nil)
}
