package handler

import (
	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/bookshelf/internal/application/category"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// CategoryHandler 分类处理器
type CategoryHandler struct {
	list   *appcategory.ListCategoriesUseCase
	create *appcategory.CreateCategoryUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(list *appcategory.ListCategoriesUseCase, create *appcategory.CreateCategoryUseCase) *CategoryHandler {
	return &CategoryHandler{list: list, create: create}
}

// List 分类列表
// @Summary      分类列表
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response{data=[]appcategory.CategoryResponse}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.list.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 创建分类
// @Summary      创建分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CategoryRequest true "分类"
// @Success      200 {object} response.Response{data=appcategory.CategoryResponse}
// @Failure      200 {object} response.Response "40009分类已存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.create.Execute(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
