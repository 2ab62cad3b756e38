package user

import (
	"context"

	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

const tracerName = "bookshelf/application/user"

// RegisterUseCase 用户注册用例
// 设计说明：
// 1. Application层负责用例编排：事务 → 领域服务 → 领域事件
// 2. 用户和默认资料在同一事务中创建
type RegisterUseCase struct {
	userService user.Service
	txManager   *gormdb.TxManager
	publisher   event.Publisher
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service, txManager *gormdb.TxManager, publisher event.Publisher) *RegisterUseCase {
	return &RegisterUseCase{
		userService: userService,
		txManager:   txManager,
		publisher:   publisher,
	}
}

// Execute 执行注册
// 返回：RegisterResponse（应用层DTO，不是领域实体）
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (resp *RegisterResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.Register")
	defer func() { tracing.End(span, err) }()

	var u *user.User
	var p *user.Profile
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, p, err = uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, event.New(event.UserRegistered, event.UserPayload{UserID: u.ID, Email: u.Email}))

	// 领域实体 → 应用层DTO（不返回密码字段）
	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
		Image:    p.ImageRef,
	}, nil
}

// =========================================
// 应用层DTO（数据传输对象）
// =========================================

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Image    string `json:"profile_image"`
}
