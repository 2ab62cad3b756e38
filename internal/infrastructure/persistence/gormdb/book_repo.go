package gormdb

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 读操作JOIN categories带出分类名
// 3. slug唯一索引冲突转换为book.ErrSlugTaken，由领域服务重新生成slug
type bookRepository struct {
	base
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{base{db: db}}
}

// bookRow 查询结果(图书 + 分类名)
type bookRow struct {
	ID               uint
	Title            string
	Author           string
	Slug             string
	ShortDescription string
	FullDescription  string
	ImageRef         string
	Status           int
	CategoryID       uint
	CategoryName     string
	OwnerID          uint
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	// 1. 领域实体 → GORM模型
	model := toBookModel(b)

	// 2. 插入数据库
	if err := r.getDB(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrSlugTaken
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	// 3. 回填自增ID
	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindBySlug 根据slug查找图书
func (r *bookRepository) FindBySlug(ctx context.Context, slug string) (*book.Book, error) {
	var row bookRow
	err := r.selectBooks(ctx).Where("books.slug = ?", slug).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return row.toEntity(), nil
}

// Update 更新图书信息
// 只更新可编辑字段，slug和owner_id不在更新列表中
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	result := r.getDB(ctx).Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":             b.Title,
		"author":            b.Author,
		"short_description": b.ShortDescription,
		"full_description":  b.FullDescription,
		"image_ref":         b.ImageRef,
		"status":            int(b.Status),
		"category_id":       b.CategoryID,
		"updated_at":        b.UpdatedAt,
	})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// Delete 删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// DeleteByOwner 删除某用户的全部图书
func (r *bookRepository) DeleteByOwner(ctx context.Context, ownerID uint) ([]string, error) {
	db := r.getDB(ctx)

	var slugs []string
	if err := db.Model(&BookModel{}).Where("owner_id = ?", ownerID).Pluck("slug", &slugs).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询用户图书失败")
	}
	if len(slugs) == 0 {
		return nil, nil
	}

	if err := db.Where("owner_id = ?", ownerID).Delete(&BookModel{}).Error; err != nil {
		return nil, apperrors.Wrap(err, "删除用户图书失败")
	}
	return slugs, nil
}

// ListByOwner 某用户创建的图书
func (r *bookRepository) ListByOwner(ctx context.Context, ownerID uint, page book.Page) ([]*book.Book, int64, error) {
	return r.list(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Where("books.owner_id = ?", ownerID)
	})
}

// ListLikedBy 某用户点赞的图书
func (r *bookRepository) ListLikedBy(ctx context.Context, userID uint, page book.Page) ([]*book.Book, int64, error) {
	return r.list(ctx, page, func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN book_likes ON book_likes.book_id = books.id").
			Where("book_likes.user_id = ?", userID)
	})
}

// Search 搜索图书
// 学习要点:
// 1. LOWER(col) LIKE LOWER(pattern) 在三种数据库上都是不区分大小写的
// 2. 用户输入中的%和_需要转义，否则"50%"会匹配到"500"
// 3. OR条件必须整体包在括号里，GORM的Where(string, ...)会自动加括号
func (r *bookRepository) Search(ctx context.Context, params book.SearchParams) ([]*book.Book, int64, error) {
	return r.list(ctx, params.Page, func(db *gorm.DB) *gorm.DB {
		if params.Query == "" {
			return db
		}
		pattern := contains(params.Query)
		return db.Where(
			"LOWER(books.title) LIKE ? ESCAPE '"+likeEscape+"' OR "+
				"LOWER(books.author) LIKE ? ESCAPE '"+likeEscape+"' OR "+
				"LOWER(categories.name) LIKE ? ESCAPE '"+likeEscape+"'",
			pattern, pattern, pattern,
		)
	})
}

// CountByOwner 某用户创建的图书数量
func (r *bookRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := r.getDB(ctx).Model(&BookModel{}).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书数量失败")
	}
	return n, nil
}

// SlugCandidates slug生成的候选集合
// 只查询base/prefix开头的slug，不扫描全表(slug有唯一索引，前缀LIKE可以走索引)
func (r *bookRepository) SlugCandidates(ctx context.Context, base, prefix string) ([]string, error) {
	query := r.getDB(ctx).Model(&BookModel{})
	if prefix == base {
		query = query.Where("slug = ? OR slug LIKE ? ESCAPE '"+likeEscape+"'", base, escapeLike(base)+"-%")
	} else {
		query = query.Where("slug LIKE ? ESCAPE '"+likeEscape+"'", escapeLike(prefix)+"%")
	}

	var slugs []string
	err := query.Pluck("slug", &slugs).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询slug失败")
	}
	return slugs, nil
}

// selectBooks 图书 JOIN 分类
func (r *bookRepository) selectBooks(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).
		Table("books").
		Select("books.*, categories.name AS category_name").
		Joins("JOIN categories ON categories.id = books.category_id")
}

// list 计数 + 排序 + 可选分页
func (r *bookRepository) list(ctx context.Context, page book.Page, filter func(*gorm.DB) *gorm.DB) ([]*book.Book, int64, error) {
	var total int64
	countQuery := filter(r.getDB(ctx).Table("books").Joins("JOIN categories ON categories.id = books.category_id"))
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	if total == 0 {
		return []*book.Book{}, 0, nil
	}

	query := filter(r.selectBooks(ctx)).Order("books.created_at DESC").Order("books.id DESC")
	if page.Size > 0 {
		query = query.Limit(page.Size).Offset(page.Offset())
	}

	var rows []bookRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(rows))
	for i := range rows {
		books[i] = rows[i].toEntity()
	}
	return books, total, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	return &BookModel{
		ID:               b.ID,
		Title:            b.Title,
		Author:           b.Author,
		Slug:             b.Slug,
		ShortDescription: b.ShortDescription,
		FullDescription:  b.FullDescription,
		ImageRef:         b.ImageRef,
		Status:           int(b.Status),
		CategoryID:       b.CategoryID,
		OwnerID:          b.OwnerID,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// toEntity 查询行 → 领域实体
func (row *bookRow) toEntity() *book.Book {
	return &book.Book{
		ID:               row.ID,
		Title:            row.Title,
		Author:           row.Author,
		Slug:             row.Slug,
		ShortDescription: row.ShortDescription,
		FullDescription:  row.FullDescription,
		ImageRef:         row.ImageRef,
		Status:           book.Status(row.Status),
		CategoryID:       row.CategoryID,
		CategoryName:     row.CategoryName,
		OwnerID:          row.OwnerID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
