package category

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// MaxNameLength 分类名最大长度(字符数)
const MaxNameLength = 100

// Category 图书分类
type Category struct {
	ID   uint
	Name string
}

// 分类领域错误
var (
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")
	ErrDuplicateName    = apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名已存在")
	ErrInvalidName      = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名不能为空且不超过100个字符")
)

// Repository 分类仓储接口
type Repository interface {
	// Create 创建分类，名称重复返回ErrDuplicateName
	Create(ctx context.Context, c *Category) error

	// FindByID 不存在返回ErrCategoryNotFound
	FindByID(ctx context.Context, id uint) (*Category, error)

	// List 按名称排序
	List(ctx context.Context) ([]*Category, error)
}

// Service 分类服务
type Service interface {
	Create(ctx context.Context, name string) (*Category, error)
	Get(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, ErrInvalidName
	}

	c := &Category{Name: name}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}
