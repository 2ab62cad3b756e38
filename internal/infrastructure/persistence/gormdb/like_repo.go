package gormdb

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshelf/internal/domain/like"
	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// likeRepository 点赞仓储实现
type likeRepository struct {
	base
}

// NewLikeRepository 创建点赞仓储
func NewLikeRepository(db *gorm.DB) like.Repository {
	return &likeRepository{base{db: db}}
}

// Toggle 切换点赞
// 学习要点:
// 1. 先DELETE：删到了行说明原来是点赞状态，本次是取消
// 2. 没删到再INSERT ... ON CONFLICT DO NOTHING
// 3. 不做"先查询再决定"，避免同一用户并发切换时两次都读到同一状态
func (r *likeRepository) Toggle(ctx context.Context, bookID, userID uint) (bool, error) {
	var liked bool
	err := r.getDB(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("book_id = ? AND user_id = ?", bookID, userID).Delete(&BookLikeModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		row := &BookLikeModel{BookID: bookID, UserID: userID}
		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, apperrors.Wrap(err, "切换点赞失败")
	}
	return liked, nil
}

// Remove 取消点赞(幂等)
func (r *likeRepository) Remove(ctx context.Context, bookID, userID uint) (bool, error) {
	res := r.getDB(ctx).Where("book_id = ? AND user_id = ?", bookID, userID).Delete(&BookLikeModel{})
	if res.Error != nil {
		return false, apperrors.Wrap(res.Error, "取消点赞失败")
	}
	return res.RowsAffected > 0, nil
}

// Exists 是否已点赞
func (r *likeRepository) Exists(ctx context.Context, bookID, userID uint) (bool, error) {
	var n int64
	err := r.getDB(ctx).Model(&BookLikeModel{}).
		Where("book_id = ? AND user_id = ?", bookID, userID).
		Count(&n).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询点赞失败")
	}
	return n > 0, nil
}

// CountByBook 图书的点赞数
func (r *likeRepository) CountByBook(ctx context.Context, bookID uint) (int64, error) {
	return r.count(ctx, "book_id = ?", bookID)
}

// CountByUser 用户点赞的图书数
func (r *likeRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "user_id = ?", userID)
}

func (r *likeRepository) count(ctx context.Context, cond string, arg uint) (int64, error) {
	var n int64
	if err := r.getDB(ctx).Model(&BookLikeModel{}).Where(cond, arg).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计点赞失败")
	}
	return n, nil
}

// LikedBookIDs 一次查询标注整页图书
func (r *likeRepository) LikedBookIDs(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error) {
	marks := make(map[uint]bool, len(bookIDs))
	if len(bookIDs) == 0 {
		return marks, nil
	}

	var ids []uint
	err := r.getDB(ctx).Model(&BookLikeModel{}).
		Where("user_id = ? AND book_id IN ?", userID, bookIDs).
		Pluck("book_id", &ids).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询点赞失败")
	}

	for _, id := range ids {
		marks[id] = true
	}
	return marks, nil
}

// DeleteByBook 删除图书的全部点赞
func (r *likeRepository) DeleteByBook(ctx context.Context, bookID uint) error {
	if err := r.getDB(ctx).Where("book_id = ?", bookID).Delete(&BookLikeModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书点赞失败")
	}
	return nil
}

// DeleteByUser 删除用户的全部点赞
func (r *likeRepository) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.getDB(ctx).Where("user_id = ?", userID).Delete(&BookLikeModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除用户点赞失败")
	}
	return nil
}

// DeleteByBooksOwnedBy 删除某用户所有图书上的点赞
func (r *likeRepository) DeleteByBooksOwnedBy(ctx context.Context, ownerID uint) error {
	db := r.getDB(ctx)
	owned := db.Session(&gorm.Session{NewDB: true}).Model(&BookModel{}).Select("id").Where("owner_id = ?", ownerID)
	if err := db.Where("book_id IN (?)", owned).Delete(&BookLikeModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书点赞失败")
	}
	return nil
}
