package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/category"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// categoryRepository 分类仓储实现
type categoryRepository struct {
	base
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{base{db: db}}
}

// Create 创建分类，名称唯一由数据库索引保证
func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name}
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return category.ErrDuplicateName
		}
		return apperrors.Wrap(err, "创建分类失败")
	}
	c.ID = model.ID
	return nil
}

// FindByID 根据ID查找分类
func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}
	return &category.Category{ID: model.ID, Name: model.Name}, nil
}

// List 按名称排序
func (r *categoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := r.getDB(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}

	out := make([]*category.Category, len(models))
	for i, m := range models {
		out[i] = &category.Category{ID: m.ID, Name: m.Name}
	}
	return out, nil
}
