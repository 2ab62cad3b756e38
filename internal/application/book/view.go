package book

import (
	"strings"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

const (
	tracerName = "bookshelf/application/book"

	// MaxPageSize 每页最大数量
	MaxPageSize = 100
)

// 跳转目标
const (
	OwnListPath   = "/api/v1/books/user"
	SearchPath    = "/api/v1/books/search"
	FavouritePath = "/api/v1/books/favourites"
)

// DetailPath 图书详情地址
func DetailPath(slug string) string {
	return "/api/v1/books/" + slug
}

// BookView 图书输出DTO
type BookView struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	Slug             string `json:"slug"`
	ShortDescription string `json:"short_description"`
	FullDescription  string `json:"full_description"`
	Image            string `json:"image"`
	Status           string `json:"status"`
	CategoryID       uint   `json:"category_id"`
	CategoryName     string `json:"category_name"`
	OwnerID          uint   `json:"owner_id"`
	LikedByUser      bool   `json:"liked_by_user"`
	LikesCount       *int64 `json:"likes_count,omitempty"` // 只在详情中返回
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// CategoryView 分类输出DTO(表单下拉框)
type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// BookInput 新增/编辑共用的输入
type BookInput struct {
	Title            string
	Author           string
	ShortDescription string
	FullDescription  string
	Image            string
	CategoryID       uint
	Status           string // 只在编辑时使用，空表示不修改
}

func (in BookInput) fields() book.Fields {
	return book.Fields{
		Title:            in.Title,
		Author:           in.Author,
		ShortDescription: in.ShortDescription,
		FullDescription:  in.FullDescription,
		ImageRef:         in.Image,
		CategoryID:       in.CategoryID,
	}
}

// status 解析可选的状态字段
func (in BookInput) status() (*book.Status, error) {
	if strings.TrimSpace(in.Status) == "" {
		return nil, nil
	}
	s, err := book.ParseStatus(in.Status)
	if err != nil {
		return nil, apperrors.Validation(apperrors.FieldError{
			Field: "status", Rule: "oneof", Message: "图书状态只能是draft或published",
		})
	}
	return &s, nil
}

// Paging 可选分页参数
// PageSize为0时返回全部结果
type Paging struct {
	Page     int
	PageSize int
}

func (p Paging) page() book.Page {
	if p.PageSize <= 0 {
		return book.Page{}
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return book.Page{Number: p.Page, Size: p.PageSize}
}

// ListResult 列表输出
type ListResult struct {
	Books    []BookView
	Total    int64
	Page     int
	PageSize int
}

func newListResult(books []*book.Book, total int64, page book.Page, liked func(uint) bool) *ListResult {
	views := make([]BookView, len(books))
	for i, b := range books {
		views[i] = toView(b, liked(b.ID))
	}
	return &ListResult{Books: views, Total: total, Page: page.Number, PageSize: page.Size}
}

func toView(b *book.Book, liked bool) BookView {
	return BookView{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Slug:             b.Slug,
		ShortDescription: b.ShortDescription,
		FullDescription:  b.FullDescription,
		Image:            b.ImageRef,
		Status:           b.Status.String(),
		CategoryID:       b.CategoryID,
		CategoryName:     b.CategoryName,
		OwnerID:          b.OwnerID,
		LikedByUser:      liked,
		CreatedAt:        b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func toCategoryViews(cs []*category.Category) []CategoryView {
	out := make([]CategoryView, len(cs))
	for i, c := range cs {
		out[i] = CategoryView{ID: c.ID, Name: c.Name}
	}
	return out
}
