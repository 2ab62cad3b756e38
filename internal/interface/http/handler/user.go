package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 使用依赖注入，便于测试
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	loginUseCase    *appuser.LoginUseCase
	logoutUseCase   *appuser.LogoutUseCase
	refreshUseCase  *appuser.RefreshTokenUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	refreshUseCase *appuser.RefreshTokenUseCase,
) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		refreshUseCase:  refreshUseCase,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建新用户账号和默认资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=appuser.RegisterResponse} "注册成功"
// @Failure      200 {object} response.Response "40900参数错误 / 40003邮箱已存在 / 40005密码强度不足"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	// 1. 绑定并验证参数
	// 学习要点：Gin的ShouldBindJSON会自动校验binding tag
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	// 2. 调用应用层用例
	// 学习要点：Handler不直接调用domain层，而是通过application层
	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		// 业务错误（如邮箱已存在、密码强度不足）
		response.Error(c, err)
		return
	}

	// 3. 注册成功后跳转登录
	response.SuccessWithRedirect(c, "注册成功，请登录", middleware.LoginPath, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "40103邮箱或密码错误"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		// 登录失败（邮箱不存在或密码错误返回同一错误码）
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Description  使用登录时返回的Refresh Token换取新的Access Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshTokenRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshTokenResponse}
// @Failure      200 {object} response.Response "40100会话已失效 / 40101 Token无效 / 40102 Token过期"
// @Router       /api/v1/users/refresh [post]
func (h *UserHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 用户登出
// @Summary      用户登出
// @Description  删除会话，当前Access Token加入黑名单
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=response.Redirect}
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.MustGetUserID(c), middleware.GetAccessToken(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, "已退出登录", middleware.LoginPath, nil)
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么需要多个DTO？
//    - HTTP层DTO（dto.RegisterRequest）：包含验证tag，服务于HTTP协议
//    - 应用层DTO（appuser.RegisterRequest）：纯数据结构，服务于用例
//    - 领域实体（user.User）：包含业务逻辑，不应暴露给外部
//
// 2. 参数验证的三层防护：
//    - HTTP层：binding tag校验（格式、长度）
//    - 领域服务：业务规则校验（密码强度、邮箱唯一性）
//    - 数据库：约束校验（UNIQUE索引、NOT NULL）
