package book

import (
	"strings"
	"time"
)

// Status 图书状态
type Status int

const (
	StatusDraft     Status = 0 // 草稿（默认）
	StatusPublished Status = 1 // 已发布
)

// String 状态名（API中使用字符串表示）
func (s Status) String() string {
	switch s {
	case StatusPublished:
		return "published"
	default:
		return "draft"
	}
}

// ParseStatus 字符串 → 状态
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "draft":
		return StatusDraft, nil
	case "published":
		return StatusPublished, nil
	default:
		return StatusDraft, ErrInvalidStatus
	}
}

// DefaultImageRef 未上传封面时的默认图片引用
// 图片本身存放在外部媒体服务，这里只保存引用
const DefaultImageRef = "book_image"

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Slug是图书在URL中的唯一标识，创建时生成，之后永不改变
// 2. OwnerID是创建者，只有创建者可以修改和删除
// 3. CategoryName由仓储查询时一并带出(只读)，写入时只使用CategoryID
// 4. 点赞关系属于like聚合，不在Book中保存
type Book struct {
	ID               uint
	Title            string
	Author           string
	Slug             string
	ShortDescription string
	FullDescription  string
	ImageRef         string
	Status           Status
	CategoryID       uint
	CategoryName     string
	OwnerID          uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Fields 可编辑字段(新增和编辑共用)
type Fields struct {
	Title            string
	Author           string
	ShortDescription string
	FullDescription  string
	ImageRef         string
	CategoryID       uint
}

// NewBook 创建新图书(工厂方法)
// slug由Service生成后赋值，状态默认为草稿
func NewBook(f Fields, ownerID uint) *Book {
	now := time.Now()
	b := &Book{
		Status:    StatusDraft,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.apply(f)
	return b
}

// Update 更新可编辑字段(领域行为)
// 业务规则:slug不随标题变化
func (b *Book) Update(f Fields, status *Status) {
	b.apply(f)
	if status != nil {
		b.Status = *status
	}
	b.UpdatedAt = time.Now()
}

func (b *Book) apply(f Fields) {
	b.Title = strings.TrimSpace(f.Title)
	b.Author = strings.TrimSpace(f.Author)
	b.ShortDescription = f.ShortDescription
	b.FullDescription = f.FullDescription
	b.ImageRef = strings.TrimSpace(f.ImageRef)
	if b.ImageRef == "" {
		b.ImageRef = DefaultImageRef
	}
	b.CategoryID = f.CategoryID
}

// IsOwnedBy 检查图书是否由指定用户创建
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.OwnerID == userID
}
