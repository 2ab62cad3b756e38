package book

import (
	"errors"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrForbidden 非创建者修改或删除图书
	ErrForbidden = apperrors.New(apperrors.ErrCodeForbidden, "只有图书的创建者可以修改或删除")

	// ErrSlugConflict 多次重新生成slug后仍然冲突(并发添加同名图书)
	ErrSlugConflict = apperrors.New(apperrors.ErrCodeSlugConflict, "图书标识生成冲突，请重试")

	// ErrConfirmationRequired 删除确认页未勾选确认
	ErrConfirmationRequired = apperrors.New(apperrors.ErrCodeConfirmationRequired, "请确认删除操作")

	// ErrInvalidStatus 无效的图书状态
	ErrInvalidStatus = apperrors.New(apperrors.ErrCodeInvalidParams, "图书状态只能是draft或published")
)

// ErrSlugTaken slug唯一索引冲突
// 仓储内部使用，Service捕获后重新生成slug，不会返回给客户端
var ErrSlugTaken = errors.New("book: slug already taken")
