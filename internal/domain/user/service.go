package user

import (
	"context"
	"errors"
	"regexp"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// hashCost bcrypt cost，测试中调低以加快速度
var hashCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
// 设计说明：
// 1. Service包含不属于单个实体的业务逻辑（如密码加密、验证）
// 2. Service依赖Repository接口，不依赖具体实现（依赖倒置）
// 3. 需要原子性的组合操作（注册、注销）由应用层开启事务，Service中的仓储调用自动加入事务
type Service interface {
	// Register 用户注册（同时创建默认资料）
	Register(ctx context.Context, email, password, nickname string) (*User, *Profile, error)

	// Login 用户登录
	Login(ctx context.Context, email, password string) (*User, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error

	// GetProfile 查询用户和资料
	GetProfile(ctx context.Context, userID uint) (*User, *Profile, error)

	// UpdateProfile 更新昵称和头像(nil表示不修改)
	UpdateProfile(ctx context.Context, userID uint, nickname, imageRef *string) (*User, *Profile, error)

	// Delete 删除用户和资料
	Delete(ctx context.Context, userID uint) error
}

type service struct {
	repo     Repository
	profiles ProfileRepository
}

// NewService 创建用户服务
func NewService(repo Repository, profiles ProfileRepository) Service {
	return &service{repo: repo, profiles: profiles}
}

// Register 用户注册
// 业务规则：
// 1. 邮箱格式校验
// 2. 密码强度校验（8-20位，包含字母和数字）
// 3. 密码bcrypt加密（cost=12）
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, *Profile, error) {
	u := NewUser(email, "", nickname)

	// 1. 邮箱格式校验
	if !emailPattern.MatchString(u.Email) {
		return nil, nil, apperrors.New(apperrors.ErrCodeInvalidParams, "邮箱格式不正确")
	}

	// 2. 密码强度校验
	if err := validatePasswordStrength(password); err != nil {
		return nil, nil, err
	}

	// 3. 昵称校验
	if err := validateNickname(u.Nickname); err != nil {
		return nil, nil, err
	}

	// 4. 密码加密
	// 学习要点：
	// - bcrypt自动加盐，每次加密结果都不同（即使密码相同）
	// - cost=12是推荐值，平衡安全性与性能（cost每+1，耗时翻倍）
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "密码加密失败")
	}
	u.Password = string(hashed)

	// 5. 持久化（Repository已把唯一索引冲突转换为ErrEmailDuplicate）
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, nil, err
	}

	p := NewProfile(u.ID)
	if err := s.profiles.Create(ctx, p); err != nil {
		return nil, nil, err
	}

	return u, p, nil
}

// Login 用户登录
// 邮箱不存在和密码错误返回同一个错误，避免泄露邮箱是否注册
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(u.Password, password); err != nil {
		return nil, err
	}
	return u, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// GetProfile 查询用户和资料
func (s *service) GetProfile(ctx context.Context, userID uint) (*User, *Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// UpdateProfile 更新资料
func (s *service) UpdateProfile(ctx context.Context, userID uint, nickname, imageRef *string) (*User, *Profile, error) {
	u, p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if nickname != nil {
		u.UpdateNickname(*nickname)
		if err := validateNickname(u.Nickname); err != nil {
			return nil, nil, err
		}
		if err := s.repo.Update(ctx, u); err != nil {
			return nil, nil, err
		}
	}

	if imageRef != nil {
		p.SetImage(*imageRef)
		if err := s.profiles.Update(ctx, p); err != nil {
			return nil, nil, err
		}
	}

	return u, p, nil
}

// Delete 删除资料和用户（调用方负责先清理用户的图书和点赞）
func (s *service) Delete(ctx context.Context, userID uint) error {
	if err := s.profiles.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

// validatePasswordStrength 密码强度校验
// 规则：8-20位，必须包含字母和数字
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}

func validateNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < 2 || n > 50 {
		return apperrors.New(apperrors.ErrCodeInvalidParams, "昵称长度应为2-50个字符")
	}
	return nil
}

// =========================================
// 学习要点总结
// =========================================
//
// 1. 为什么使用bcrypt而非MD5？
//    - MD5没有加盐，相同密码哈希值相同，容易被彩虹表攻击
//    - bcrypt自动加盐，且计算缓慢（抵抗暴力破解）
//
// 2. 为什么邮箱唯一性不在Service层校验？
//    - 应用层校验存在并发问题（SELECT再INSERT有时间窗口）
//    - 数据库UNIQUE索引能保证原子性
//    - Repository捕获数据库错误，转换为ErrEmailDuplicate
//
// 3. 为什么注册要在事务中执行？
//    - 用户和资料必须同时存在，资料创建失败时用户行也要回滚
