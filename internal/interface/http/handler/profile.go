package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	get    *appuser.GetProfileUseCase
	update *appuser.UpdateProfileUseCase
	remove *appuser.DeleteAccountUseCase
}

// NewProfileHandler 创建资料处理器
func NewProfileHandler(get *appuser.GetProfileUseCase, update *appuser.UpdateProfileUseCase, remove *appuser.DeleteAccountUseCase) *ProfileHandler {
	return &ProfileHandler{get: get, update: update, remove: remove}
}

// Get 查看个人资料
// @Summary      个人资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Router       /api/v1/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	result, err := h.get.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Update 更新个人资料
// @Summary      更新个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} response.Response{data=appuser.ProfileResponse}
// @Router       /api/v1/profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appuser.UpdateProfileRequest{
		UserID:   middleware.MustGetUserID(c),
		Nickname: req.Nickname,
		Image:    req.ProfileImage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 注销账号
// @Summary      注销账号
// @Description  删除用户、资料、用户的图书以及相关点赞
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.Redirect{result=appuser.DeleteAccountResponse}}
// @Router       /api/v1/profile [delete]
func (h *ProfileHandler) Delete(c *gin.Context) {
	result, err := h.remove.Execute(c.Request.Context(), middleware.MustGetUserID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, "账号已注销", "/api/v1/users/register", result)
}
