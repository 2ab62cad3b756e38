package gormdb

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// likeEscape LIKE子句使用的转义字符(三种数据库都支持ESCAPE '!')
const likeEscape = "!"

// isDuplicateError 判断是否为唯一索引冲突错误
// 开启TranslateError后GORM会统一翻译为ErrDuplicatedKey，
// 错误信息匹配作为兜底:
// - MySQL 1062: Duplicate entry 'xxx' for key 'yyy'
// - PostgreSQL 23505: duplicate key value violates unique constraint
// - SQLite: UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

var likeReplacer = strings.NewReplacer(
	likeEscape, likeEscape+likeEscape,
	"%", likeEscape+"%",
	"_", likeEscape+"_",
)

// escapeLike 转义LIKE通配符，使用户输入中的%和_按字面匹配
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// contains 不区分大小写子串匹配的模式
// 列一侧用LOWER()，sqlite驱动的LOWER()已替换为Unicode版本(见db.go)
func contains(q string) string {
	return "%" + escapeLike(strings.ToLower(q)) + "%"
}
