package dao

import (
	"context"

	"github.com/Eccentric-jamaican/bossinbaskets-sub000/internal/model"
	"gorm.io/gorm"
)

type CategoryDao struct {
	db *gorm.DB
}

func NewCategoryDao(db *gorm.DB) *CategoryDao {
	return &CategoryDao{db: db}
}

// GetCategoryByID 根据ID获取分类
func (d *CategoryDao) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := d.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryBySlug 根据slug获取分类
func (d *CategoryDao) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := d.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories 按展示顺序列出分类，相同sort_order按插入顺序
func (d *CategoryDao) ListCategories(ctx context.Context, activeOnly bool) ([]*model.Category, error) {
	var categories []*model.Category
	q := d.db.WithContext(ctx).Order("sort_order ASC, id ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&categories).Error
	return categories, err
}

// CreateCategory 创建分类
func (d *CategoryDao) CreateCategory(ctx context.Context, category *model.Category) error {
	return d.db.WithContext(ctx).Create(category).Error
}

// UpdateCategory 更新分类
func (d *CategoryDao) UpdateCategory(ctx context.Context, id int64, updates map[string]interface{}) error {
	return d.db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", id).Updates(updates).Error
}

// CountProductsInCategory 分类下的商品数（删除前的引用检查）
func (d *CategoryDao) CountProductsInCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// DeleteCategory 删除分类
func (d *CategoryDao) DeleteCategory(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Delete(&model.Category{}, id).Error
}
