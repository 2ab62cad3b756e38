package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/response"
)

// LoginPath 未登录时的跳转地址
const LoginPath = "/api/v1/users/login"

const (
	ctxUserID      = "user_id"
	ctxEmail       = "email"
	ctxNickname    = "nickname"
	ctxAccessToken = "access_token"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单
// 3. 验证Token有效性
// 4. 将用户信息注入Context，Handler读取一次后显式传给用例
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
// 所有认证失败都带上登录页地址，客户端可以直接跳转
//
//	authorized := r.Group("/api/v1")
//	authorized.Use(authMiddleware.RequireAuth())
//	authorized.GET("/profile", handler.GetProfile)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从Header提取Token
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, apperrors.ErrUnauthorized)
			return
		}

		// 2. 解析Token格式
		tokenString, ok := bearerToken(authHeader)
		if !ok {
			m.reject(c, apperrors.New(apperrors.ErrCodeInvalidToken, "Token格式错误"))
			return
		}

		// 3. 检查Token是否在黑名单中（用户已登出或已注销）
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if isBlacklisted {
			m.reject(c, apperrors.New(apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录"))
			return
		}

		// 4. 验证Token并解析Claims
		claims, err := m.jwtManager.ParseAccessToken(tokenString)
		if err != nil {
			m.reject(c, err) // ErrTokenExpired、ErrInvalidToken(含Refresh Token)
			return
		}

		// 5. 将用户信息注入到Context
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxNickname, claims.Nickname)
		c.Set(ctxAccessToken, tokenString)

		c.Next()
	}
}

func (m *AuthMiddleware) reject(c *gin.Context, err error) {
	response.ErrorWithRedirect(c, err, LoginPath)
	c.Abort()
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetUserID 从Context获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ctxUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetAccessToken 当前请求使用的Access Token(登出时加入黑名单)
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}

// MustGetUserID 从Context获取用户ID（如果不存在则panic）
// 说明：用于已经通过RequireAuth中间件的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. c.Abort() vs c.Next()
//    - c.Abort(): 终止后续Handler执行（用于鉴权失败）
//    - c.Next(): 继续执行后续Handler
//
// 2. 黑名单先于签名校验
//    - 已登出的Token签名仍然有效，只能靠黑名单拦截
//    - 黑名单TTL = Access Token剩余有效期，过期后自动清理
