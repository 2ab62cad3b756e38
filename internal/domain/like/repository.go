package like

import "context"

// Repository 点赞仓储接口
// 点赞是(book_id, user_id)关系表中的一行，没有其他状态
type Repository interface {
	// Toggle 切换点赞状态，返回切换后是否处于点赞状态
	// 实现要求:删除与插入在同一事务中完成(删除成功=取消点赞，否则插入)
	Toggle(ctx context.Context, bookID, userID uint) (bool, error)

	// Remove 取消点赞(幂等，不存在时无操作)，返回是否删除了点赞
	Remove(ctx context.Context, bookID, userID uint) (bool, error)

	// Exists 是否已点赞
	Exists(ctx context.Context, bookID, userID uint) (bool, error)

	// CountByBook 图书的点赞数
	CountByBook(ctx context.Context, bookID uint) (int64, error)

	// CountByUser 用户点赞的图书数
	CountByUser(ctx context.Context, userID uint) (int64, error)

	// LikedBookIDs 在给定图书中，用户已点赞的图书ID集合(列表页一次查询标注)
	LikedBookIDs(ctx context.Context, userID uint, bookIDs []uint) (map[uint]bool, error)

	// DeleteByBook 删除图书的全部点赞(删除图书时调用)
	DeleteByBook(ctx context.Context, bookID uint) error

	// DeleteByUser 删除用户的全部点赞(注销账号时调用)
	DeleteByUser(ctx context.Context, userID uint) error

	// DeleteByBooksOwnedBy 删除某用户创建的所有图书上的点赞(注销账号时调用)
	DeleteByBooksOwnedBy(ctx context.Context, ownerID uint) error
}
