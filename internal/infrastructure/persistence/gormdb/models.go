package gormdb

import (
	"time"
)

// CategoryModel GORM分类模型
type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:100;not null;comment:分类名"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. slug有唯一索引，是并发添加同名图书时的最终防线
// 2. 删除分类级联删除其图书(外键约束)
// 3. 物理删除，不使用gorm.DeletedAt
// 4. created_at + id 复合索引服务于默认排序
type BookModel struct {
	ID               uint           `gorm:"primaryKey;index:idx_books_created,priority:2"`
	Title            string         `gorm:"size:100;not null;comment:书名"`
	Author           string         `gorm:"size:100;not null;comment:作者"`
	Slug             string         `gorm:"uniqueIndex;size:100;not null;comment:URL标识"`
	ShortDescription string         `gorm:"type:text;comment:简介"`
	FullDescription  string         `gorm:"type:text;comment:详细介绍"`
	ImageRef         string         `gorm:"size:255;not null;default:book_image;comment:封面图片引用"`
	Status           int            `gorm:"not null;default:0;comment:状态(0草稿1已发布)"`
	CategoryID       uint           `gorm:"index;not null;comment:分类ID"`
	Category         *CategoryModel `gorm:"constraint:OnDelete:CASCADE"`
	OwnerID          uint           `gorm:"index;not null;comment:创建者用户ID"`
	CreatedAt        time.Time      `gorm:"index:idx_books_created,priority:1;comment:创建时间"`
	UpdatedAt        time.Time      `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookLikeModel 点赞关系表
// (book_id, user_id) 复合主键保证同一用户对同一本书最多一行
type BookLikeModel struct {
	BookID    uint       `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint       `gorm:"primaryKey;autoIncrement:false;index"`
	Book      *BookModel `gorm:"constraint:OnDelete:CASCADE"`
	User      *UserModel `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

// TableName 指定表名
func (BookLikeModel) TableName() string {
	return "book_likes"
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string    `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// ProfileModel 用户资料
type ProfileModel struct {
	ID       uint       `gorm:"primaryKey"`
	UserID   uint       `gorm:"uniqueIndex;not null"`
	User     *UserModel `gorm:"constraint:OnDelete:CASCADE"`
	ImageRef string     `gorm:"size:255;not null;default:profile_image;comment:头像图片引用"`
}

// TableName 指定表名
func (ProfileModel) TableName() string {
	return "user_profiles"
}
