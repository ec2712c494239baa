package service

import (
	"context"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/dao"
	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
)

// CatalogService 商品与分类的管理端CRUD + 店面只读查询
type CatalogService struct {
	productDao  *dao.ProductDao
	categoryDao *dao.CategoryDao
}

func NewCatalogService(productDao *dao.ProductDao, categoryDao *dao.CategoryDao) *CatalogService {
	return &CatalogService{
		productDao:  productDao,
		categoryDao: categoryDao,
	}
}

// ProductInput 商品创建/更新入参
type ProductInput struct {
	Name            string
	Slug            string
	Description     string
	Price           int64
	CompareAtPrice  *int64
	CategoryID      int64
	Images          []string
	Inventory       int32
	IsActive        *bool
	Tags            []string
	AllowCustomNote *bool
}

func (in *ProductInput) validate() error {
	if in.Name == "" || in.Slug == "" {
		return ErrValidation
	}
	if in.Price <= 0 {
		return ErrValidation
	}
	// 划线价必须高于售价
	if in.CompareAtPrice != nil && *in.CompareAtPrice <= in.Price {
		return ErrValidation
	}
	if in.Inventory < 0 {
		return ErrValidation
	}
	return nil
}

// CreateProduct 创建商品
func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	// 分类必须存在
	if _, err := s.categoryDao.GetCategoryByID(ctx, in.CategoryID); err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	taken, err := s.productDao.SlugExists(ctx, in.Slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	allowNote := false
	if in.AllowCustomNote != nil {
		allowNote = *in.AllowCustomNote
	}

	product := &model.Product{
		Name:            in.Name,
		Slug:            in.Slug,
		Description:     in.Description,
		Price:           in.Price,
		CompareAtPrice:  in.CompareAtPrice,
		CategoryID:      in.CategoryID,
		Images:          in.Images,
		Inventory:       in.Inventory,
		IsActive:        isActive,
		Tags:            in.Tags,
		AllowCustomNote: allowNote,
	}
	if _, err := s.productDao.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct 更新商品，零值字段跳过
func (s *CatalogService) UpdateProduct(ctx context.Context, productID int64, in ProductInput) error {
	existing, err := s.productDao.GetProductByID(ctx, productID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	updates := make(map[string]interface{})
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Slug != "" && in.Slug != existing.Slug {
		taken, err := s.productDao.SlugExists(ctx, in.Slug, productID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugTaken
		}
		updates["slug"] = in.Slug
	}
	if in.Description != "" {
		updates["description"] = in.Description
	}
	price := existing.Price
	if in.Price > 0 {
		price = in.Price
		updates["price"] = in.Price
	}
	if in.CompareAtPrice != nil {
		if *in.CompareAtPrice <= price {
			return ErrValidation
		}
		updates["compare_at_price"] = *in.CompareAtPrice
	}
	if in.CategoryID > 0 {
		if _, err := s.categoryDao.GetCategoryByID(ctx, in.CategoryID); err != nil {
			if dao.IsNotFound(err) {
				return ErrNotFound
			}
			return err
		}
		updates["category_id"] = in.CategoryID
	}
	if in.Images != nil {
		updates["images"] = model.StringList(in.Images)
	}
	if in.Tags != nil {
		updates["tags"] = model.StringList(in.Tags)
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.AllowCustomNote != nil {
		updates["allow_custom_note"] = *in.AllowCustomNote
	}

	if len(updates) == 0 {
		return ErrValidation
	}
	return s.productDao.UpdateProduct(ctx, productID, updates)
}

// DeleteProduct 删除商品
func (s *CatalogService) DeleteProduct(ctx context.Context, productID int64) error {
	if _, err := s.productDao.GetProductByID(ctx, productID); err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.productDao.DeleteProductByID(ctx, productID)
}

// SetInventory 后台直接改库存
func (s *CatalogService) SetInventory(ctx context.Context, productID int64, inventory int32) error {
	if inventory < 0 {
		return ErrValidation
	}
	if _, err := s.productDao.GetProductByID(ctx, productID); err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	return s.productDao.AdjustInventory(ctx, productID, inventory)
}

// GetProduct 商品详情
func (s *CatalogService) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	product, err := s.productDao.GetProductByID(ctx, productID)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetProductBySlug 店面商品详情页（走缓存）
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productDao.GetProductBySlug(ctx, slug)
	if err != nil {
		if dao.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListProducts 商品列表
func (s *CatalogService) ListProducts(ctx context.Context, f dao.ProductFilter) ([]*model.Product, int64, error) {
	return s.productDao.ListProducts(ctx, f)
}

// CategoryInput 分类创建/更新入参
type CategoryInput struct {
	Name      string
	Slug      string
	IsActive  *bool
	SortOrder *int
}

// CreateCategory 创建分类
func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	if in.Name == "" || in.Slug == "" {
		return nil, ErrValidation
	}
	if _, err := s.categoryDao.GetCategoryBySlug(ctx, in.Slug); err == nil {
		return nil, ErrSlugTaken
	} else if !dao.IsNotFound(err) {
		return nil, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	sortOrder := 0
	if in.SortOrder != nil {
		sortOrder = *in.SortOrder
	}
	category := &model.Category{
		Name:      in.Name,
		Slug:      in.Slug,
		IsActive:  isActive,
		SortOrder: sortOrder,
	}
	if err := s.categoryDao.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory 更新分类
func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID int64, in CategoryInput) error {
	existing, err := s.categoryDao.GetCategoryByID(ctx, categoryID)
	if err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	updates := make(map[string]interface{})
	if in.Name != "" {
		updates["name"] = in.Name
	}
	if in.Slug != "" && in.Slug != existing.Slug {
		if _, err := s.categoryDao.GetCategoryBySlug(ctx, in.Slug); err == nil {
			return ErrSlugTaken
		} else if !dao.IsNotFound(err) {
			return err
		}
		updates["slug"] = in.Slug
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.SortOrder != nil {
		updates["sort_order"] = *in.SortOrder
	}
	if len(updates) == 0 {
		return ErrValidation
	}
	return s.categoryDao.UpdateCategory(ctx, categoryID, updates)
}

// DeleteCategory 删除分类，仍被商品引用时拒绝（不做级联）
func (s *CatalogService) DeleteCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categoryDao.GetCategoryByID(ctx, categoryID); err != nil {
		if dao.IsNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	count, err := s.categoryDao.CountProductsInCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	return s.categoryDao.DeleteCategory(ctx, categoryID)
}

// ListCategories 分类列表
func (s *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	return s.categoryDao.ListCategories(ctx, activeOnly)
}
