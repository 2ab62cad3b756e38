package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/jwt"
)

// LoginUseCase 用户登录用例
// 设计说明：
// 1. 验证邮箱密码
// 2. 生成JWT Token对
// 3. 保存会话到Redis
type LoginUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	log          *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
	log *zap.Logger,
) *LoginUseCase {
	return &LoginUseCase{
		userService:  userService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		log:          log,
	}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码（调用领域服务）
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	// 2. 生成JWT Token对
	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.Nickname)
	if err != nil {
		return nil, err
	}

	// 3. 保存会话到Redis（会话有效期 = Refresh Token有效期）
	sessionData := map[string]interface{}{
		"user_id":  u.ID,
		"email":    u.Email,
		"nickname": u.Nickname,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}
	if err := uc.sessionStore.SaveSession(ctx, u.ID, sessionData, uc.jwtManager.RefreshTokenTTL()); err != nil {
		// 会话保存失败不影响登录，只记录日志
		uc.log.Warn("保存会话失败", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	return &LoginResponse{
		User: UserInfo{
			ID:       u.ID,
			Email:    u.Email,
			Nickname: u.Nickname,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// RefreshTokenUseCase 刷新Access Token
// 设计说明：
// 1. 只接受Refresh Token
// 2. 会话必须仍然存在：登出、注销账号后Refresh Token随之失效
// 3. 新Token中的邮箱、昵称取用户当前数据(资料可能已修改)
type RefreshTokenUseCase struct {
	userService  user.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewRefreshTokenUseCase 创建刷新Token用例
func NewRefreshTokenUseCase(userService user.Service, jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{userService: userService, jwtManager: jwtManager, sessionStore: sessionStore}
}

// RefreshTokenResponse 刷新结果
type RefreshTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // 秒
}

// Execute 校验Refresh Token和会话，签发新的Access Token
func (uc *RefreshTokenUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshTokenResponse, error) {
	access, err := uc.jwtManager.RefreshAccessToken(refreshToken, func(userID uint) (string, string, error) {
		if _, err := uc.sessionStore.GetSession(ctx, userID); err != nil {
			return "", "", err
		}
		u, _, err := uc.userService.GetProfile(ctx, userID)
		if err != nil {
			return "", "", err
		}
		return u.Email, u.Nickname, nil
	})
	if err != nil {
		return nil, err
	}

	return &RefreshTokenResponse{
		AccessToken: access,
		ExpiresIn:   int64(uc.jwtManager.AccessTokenTTL().Seconds()),
	}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
	jwtManager   *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore, jwtManager: jwtManager}
}

// Execute 执行登出
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	return revoke(ctx, uc.sessionStore, uc.jwtManager, userID, accessToken)
}

// revoke 删除会话并把Access Token加入黑名单（防止Token在过期前继续使用）
func revoke(ctx context.Context, sessions *redis.SessionStore, jwtManager *jwt.Manager, userID uint, accessToken string) error {
	if err := sessions.DeleteSession(ctx, userID); err != nil {
		return err
	}
	if accessToken == "" {
		return nil
	}
	return sessions.AddToBlacklist(ctx, accessToken, jwtManager.AccessTokenTTL())
}

// =========================================
// 应用层DTO
// =========================================

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"` // 秒
}

// UserInfo 用户信息
type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}
