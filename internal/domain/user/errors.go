package user

import apperrors "github.com/xiebiao/bookshelf/pkg/errors"

// ErrProfileNotFound 用户资料不存在
var ErrProfileNotFound = apperrors.New(apperrors.ErrCodeProfileNotFound, "用户资料不存在")
