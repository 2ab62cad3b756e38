package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

const issuer = "bookshelf"

// Token类型，写入Claims.TokenType
// Refresh Token不能当Access Token调用接口，反之亦然
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Manager JWT管理器
// 设计说明：
// 1. 使用双Token机制：Access Token（短期）+ Refresh Token（长期）
// 2. Access Token用于API鉴权，登出时加入Redis黑名单
// 3. Refresh Token用于刷新Access Token
type Manager struct {
	secret             string        // JWT签名密钥
	accessTokenExpire  time.Duration // Access Token有效期
	refreshTokenExpire time.Duration // Refresh Token有效期
}

// NewManager 创建JWT管理器
func NewManager(secret string, accessTokenExpire, refreshTokenExpire time.Duration) *Manager {
	return &Manager{
		secret:             secret,
		accessTokenExpire:  accessTokenExpire,
		refreshTokenExpire: refreshTokenExpire,
	}
}

// Claims 自定义JWT Claims
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Nickname  string `json:"nickname"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair Token对（Access + Refresh）
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access Token过期时间（秒）
}

// AccessTokenTTL Access Token有效期（登出时黑名单的过期时间与之一致）
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTokenExpire
}

// RefreshTokenTTL Refresh Token有效期（会话过期时间与之一致）
func (m *Manager) RefreshTokenTTL() time.Duration {
	return m.refreshTokenExpire
}

// GenerateToken 生成Token对
func (m *Manager) GenerateToken(userID uint, email, nickname string) (*TokenPair, error) {
	now := time.Now()

	accessTokenString, err := m.sign(Claims{
		UserID:           userID,
		Email:            email,
		Nickname:         nickname,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: m.registered(userID, now, m.accessTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Access Token失败")
	}

	// Refresh Token只包含UserID，减少payload大小
	refreshTokenString, err := m.sign(Claims{
		UserID:           userID,
		TokenType:        TokenTypeRefresh,
		RegisteredClaims: m.registered(userID, now, m.refreshTokenExpire),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "生成Refresh Token失败")
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(m.accessTokenExpire.Seconds()),
	}, nil
}

// ParseToken 解析并验证Token（签名、exp、nbf）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}

// ParseAccessToken 解析Access Token，其他类型的Token返回ErrInvalidToken
func (m *Manager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parseTyped(tokenString, TokenTypeAccess)
}

// RefreshAccessToken 使用Refresh Token签发新的Access Token
// 学习要点：
// 1. Refresh Token只包含UserID，邮箱和昵称由lookup按当前数据提供
// 2. lookup同时负责检查会话是否仍然有效（登出、注销后会话已删除）
func (m *Manager) RefreshAccessToken(refreshToken string, lookup func(userID uint) (email, nickname string, err error)) (string, error) {
	claims, err := m.parseTyped(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	email, nickname, err := lookup(claims.UserID)
	if err != nil {
		return "", err
	}

	tokenString, err := m.sign(Claims{
		UserID:           claims.UserID,
		Email:            email,
		Nickname:         nickname,
		TokenType:        TokenTypeAccess,
		RegisteredClaims: m.registered(claims.UserID, time.Now(), m.accessTokenExpire),
	})
	if err != nil {
		return "", apperrors.Wrap(err, "刷新Token失败")
	}

	return tokenString, nil
}

func (m *Manager) parseTyped(tokenString, tokenType string) (*Claims, error) {
	claims, err := m.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) registered(userID uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
	}
}

func (m *Manager) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secret))
}
