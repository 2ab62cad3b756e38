package category

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/category"
)

// CategoryResponse 分类输出
type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListCategoriesUseCase 分类列表(公开)
type ListCategoriesUseCase struct {
	categories category.Service
}

// NewListCategoriesUseCase 创建分类列表用例
func NewListCategoriesUseCase(categories category.Service) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{categories: categories}
}

// Execute 按名称排序返回全部分类
func (uc *ListCategoriesUseCase) Execute(ctx context.Context) ([]CategoryResponse, error) {
	cs, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	return out, nil
}

// CreateCategoryUseCase 创建分类(API和CLI共用)
type CreateCategoryUseCase struct {
	categories category.Service
}

// NewCreateCategoryUseCase 创建分类用例
func NewCreateCategoryUseCase(categories category.Service) *CreateCategoryUseCase {
	return &CreateCategoryUseCase{categories: categories}
}

// Execute 创建分类，名称重复返回DuplicateEntry
func (uc *CreateCategoryUseCase) Execute(ctx context.Context, name string) (*CategoryResponse, error) {
	c, err := uc.categories.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name}, nil
}
