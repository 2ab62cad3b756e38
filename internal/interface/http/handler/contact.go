package handler

import (
	"github.com/gin-gonic/gin"

	appcontact "github.com/xiebiao/bookshelf/internal/application/contact"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// ContactHandler 联系我们
type ContactHandler struct {
	submit *appcontact.SubmitContactUseCase
}

// NewContactHandler 创建联系处理器
func NewContactHandler(submit *appcontact.SubmitContactUseCase) *ContactHandler {
	return &ContactHandler{submit: submit}
}

// Submit 提交留言
// @Summary      联系我们
// @Tags         其他
// @Accept       json
// @Produce      json
// @Param        request body dto.ContactRequest true "留言"
// @Success      200 {object} response.Response{data=response.Redirect{result=appcontact.SubmitContactResponse}}
// @Router       /api/v1/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.submit.Execute(c.Request.Context(), appcontact.SubmitContactRequest{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, result.Message, "/", result)
}
