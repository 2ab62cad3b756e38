package gormdb

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中保存事务DB的key(私有类型，避免与其他包冲突)
type txKey struct{}

// TxManager 事务管理器
// 教学要点:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// 教学要点:
// 1. fn函数内的所有Repository操作都会在同一事务中执行
// 2. fn返回error时自动ROLLBACK,返回nil时自动COMMIT
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    if err := likeRepo.DeleteByBook(ctx, b.ID); err != nil {
//	        return err // 自动回滚
//	    }
//	    return bookRepo.Delete(ctx, b.ID) // nil则提交,非nil则回滚
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return conn(ctx, m.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn 从context获取事务DB,如果没有则使用默认DB
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// base 仓储公共部分
type base struct {
	db *gorm.DB
}

// getDB 所有仓储方法都通过它取连接，以便参与调用方开启的事务
func (b base) getDB(ctx context.Context) *gorm.DB {
	return conn(ctx, b.db)
}
