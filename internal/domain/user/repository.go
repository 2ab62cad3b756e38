package user

import (
	"context"
)

// Repository 用户仓储接口
// DDD设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/gormdb层
// 3. 便于单元测试（用内存实现替换）
type Repository interface {
	// Create 创建用户
	// 注意：如果邮箱已存在，应返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户
	// 如果不存在，返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新用户信息
	Update(ctx context.Context, user *User) error

	// Delete 删除用户（物理删除）
	Delete(ctx context.Context, id uint) error
}

// ProfileRepository 用户资料仓储
type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error

	// FindByUserID 不存在返回ErrProfileNotFound
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)

	Update(ctx context.Context, profile *Profile) error

	DeleteByUserID(ctx context.Context, userID uint) error
}
