package user

import (
	"strings"
	"time"
)

// DefaultProfileImageRef 未上传头像时的默认图片引用
const DefaultProfileImageRef = "profile_image"

// User 用户实体（聚合根）
// DDD设计说明：
// 1. User是用户聚合的根实体，Profile属于同一聚合，注册时一起创建
// 2. 密码已加密存储（bcrypt），实体不提供任何获取明文的方法
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     normalizeEmail(email),
		Password:  hashedPassword,
		Nickname:  strings.TrimSpace(nickname),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = strings.TrimSpace(nickname)
	u.UpdatedAt = time.Now()
}

// Profile 用户资料
type Profile struct {
	ID       uint
	UserID   uint
	ImageRef string
}

// NewProfile 注册时创建的默认资料
func NewProfile(userID uint) *Profile {
	return &Profile{UserID: userID, ImageRef: DefaultProfileImageRef}
}

// SetImage 更新头像引用，空值恢复默认
func (p *Profile) SetImage(ref string) {
	p.ImageRef = strings.TrimSpace(ref)
	if p.ImageRef == "" {
		p.ImageRef = DefaultProfileImageRef
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
