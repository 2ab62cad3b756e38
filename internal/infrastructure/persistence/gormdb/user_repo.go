package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshelf/internal/domain/user"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// userRepository 用户仓储实现
// 设计说明：
// 1. 实现domain/user/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 处理数据库特定的错误（如邮箱重复），转换为业务错误
type userRepository struct {
	base
}

// NewUserRepository 创建用户仓储
// 注意：返回的是domain层的接口类型，不是具体类型（依赖倒置）
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{base{db: db}}
}

// Create 创建用户
// 学习要点：
// 1. 邮箱唯一性由数据库UNIQUE索引保证（而非应用层SELECT再INSERT）
// 2. 捕获唯一索引冲突，转换为业务错误ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:    u.Email,
		Password: u.Password,
		Nickname: u.Nickname,
	}

	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填自增ID（GORM自动填充）
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	if err := r.getDB(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// Update 更新昵称
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	err := r.getDB(ctx).Model(&UserModel{}).Where("id = ?", u.ID).Updates(map[string]interface{}{
		"nickname":   u.Nickname,
		"updated_at": u.UpdatedAt,
	}).Error
	if err != nil {
		return apperrors.Wrap(err, "更新用户失败")
	}
	return nil
}

// Delete 删除用户（物理删除）
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(m *UserModel) *user.User {
	return &user.User{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		Nickname:  m.Nickname,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// profileRepository 用户资料仓储实现
type profileRepository struct {
	base
}

// NewProfileRepository 创建用户资料仓储
func NewProfileRepository(db *gorm.DB) user.ProfileRepository {
	return &profileRepository{base{db: db}}
}

func (r *profileRepository) Create(ctx context.Context, p *user.Profile) error {
	model := &ProfileModel{UserID: p.UserID, ImageRef: p.ImageRef}
	if err := r.getDB(ctx).Omit("User").Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建用户资料失败")
	}
	p.ID = model.ID
	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*user.Profile, error) {
	var model ProfileModel
	if err := r.getDB(ctx).Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户资料失败")
	}
	return &user.Profile{ID: model.ID, UserID: model.UserID, ImageRef: model.ImageRef}, nil
}

func (r *profileRepository) Update(ctx context.Context, p *user.Profile) error {
	err := r.getDB(ctx).Model(&ProfileModel{}).Where("id = ?", p.ID).Update("image_ref", p.ImageRef).Error
	if err != nil {
		return apperrors.Wrap(err, "更新用户资料失败")
	}
	return nil
}

func (r *profileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	if err := r.getDB(ctx).Where("user_id = ?", userID).Delete(&ProfileModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除用户资料失败")
	}
	return nil
}
