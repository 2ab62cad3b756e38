package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	applike "github.com/xiebiao/bookshelf/internal/application/like"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// LikeHandler 点赞/收藏处理器
type LikeHandler struct {
	toggle *applike.ToggleLikeUseCase
	remove *applike.RemoveFavouriteUseCase
}

// NewLikeHandler 创建点赞处理器
func NewLikeHandler(toggle *applike.ToggleLikeUseCase, remove *applike.RemoveFavouriteUseCase) *LikeHandler {
	return &LikeHandler{toggle: toggle, remove: remove}
}

// ToggleFromSearch 搜索页点赞/取消点赞
// @Summary      切换点赞(搜索页)
// @Description  已点赞则取消，未点赞则点赞；跳回搜索页并保留关键词
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        slug path  string true  "图书slug"
// @Param        q    query string false "搜索关键词"
// @Success      200 {object} response.Response{data=response.Redirect{result=applike.ToggleLikeResponse}}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{slug}/like [post]
func (h *LikeHandler) ToggleFromSearch(c *gin.Context) {
	var q dto.LikeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}
	h.doToggle(c, applike.ToggleLikeRequest{Origin: applike.FromSearch, Query: q.Q})
}

// ToggleFromDetail 详情页点赞/取消点赞
// @Summary      切换点赞(详情页)
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=response.Redirect{result=applike.ToggleLikeResponse}}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{slug}/like-detail [post]
func (h *LikeHandler) ToggleFromDetail(c *gin.Context) {
	h.doToggle(c, applike.ToggleLikeRequest{Origin: applike.FromDetail})
}

func (h *LikeHandler) doToggle(c *gin.Context, req applike.ToggleLikeRequest) {
	req.Slug = c.Param("slug")
	req.ActorID = middleware.MustGetUserID(c)

	result, err := h.toggle.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, result.Message, result.RedirectTo, result)
}

// RemoveFavourite 从收藏中移除
// @Summary      移除收藏
// @Description  无论当前是否已点赞都返回成功
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=response.Redirect{result=applike.RemoveFavouriteResponse}}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{slug}/unlike [get]
func (h *LikeHandler) RemoveFavourite(c *gin.Context) {
	result, err := h.remove.Execute(c.Request.Context(), c.Param("slug"), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, result.Message, appbook.FavouritePath, result)
}
