package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// SessionStore 会话存储
// 设计说明：
// 1. 使用Redis存储用户登录会话
// 2. 支持JWT黑名单（用户登出、注销账号）
// 3. Key设计：bookshelf:session:{user_id}、bookshelf:blacklist:{sha256(token)}
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("%ssession:%d", keyPrefix, userID)
}

// blacklistKey token较长，存摘要即可
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + "blacklist:" + hex.EncodeToString(sum[:])
}

// SaveSession 保存用户会话
// 学习要点：
// 1. 存储用户登录信息（登录时间、客户端IP等）
// 2. HSet和Expire放在同一个MULTI中，不会留下没有过期时间的key
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionData)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取用户会话
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（用于登出）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// ttl取Access Token有效期，到期后Token本身已失效，黑名单记录随之过期
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么需要会话存储？
//    - JWT是无状态的，服务端无法主动让Token失效
//    - 通过Redis黑名单机制，可以实现Token的主动失效
//
// 2. 过期时间策略
//    - session过期时间 = Refresh Token有效期（7天）
//    - blacklist过期时间 = Access Token有效期（2小时）
//    - 过期后自动删除，无需手动清理
