package user

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/tracing"
)

// ProfileResponse 个人资料
type ProfileResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	Nickname    string `json:"nickname"`
	Image       string `json:"profile_image"`
	BooksOwned  int64  `json:"books_owned"`
	BooksLiked  int64  `json:"books_liked"`
	MemberSince string `json:"member_since"`
}

// GetProfileUseCase 查看个人资料
type GetProfileUseCase struct {
	userService user.Service
	books       book.Repository
	likes       like.Repository
}

// NewGetProfileUseCase 创建查看资料用例
func NewGetProfileUseCase(userService user.Service, books book.Repository, likes like.Repository) *GetProfileUseCase {
	return &GetProfileUseCase{userService: userService, books: books, likes: likes}
}

// Execute 查询资料和统计数据
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID uint) (*ProfileResponse, error) {
	u, p, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.build(ctx, u, p)
}

func (uc *GetProfileUseCase) build(ctx context.Context, u *user.User, p *user.Profile) (*ProfileResponse, error) {
	owned, err := uc.books.CountByOwner(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	liked, err := uc.likes.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		Nickname:    u.Nickname,
		Image:       p.ImageRef,
		BooksOwned:  owned,
		BooksLiked:  liked,
		MemberSince: u.CreatedAt.Format("2006-01-02"),
	}, nil
}

// UpdateProfileUseCase 更新个人资料
type UpdateProfileUseCase struct {
	userService user.Service
	profile     *GetProfileUseCase
}

// NewUpdateProfileUseCase 创建更新资料用例
func NewUpdateProfileUseCase(userService user.Service, profile *GetProfileUseCase) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{userService: userService, profile: profile}
}

// UpdateProfileRequest nil字段不修改
type UpdateProfileRequest struct {
	UserID   uint
	Nickname *string
	Image    *string
}

// Execute 更新并返回最新资料
func (uc *UpdateProfileUseCase) Execute(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	u, p, err := uc.userService.UpdateProfile(ctx, req.UserID, req.Nickname, req.Image)
	if err != nil {
		return nil, err
	}
	return uc.profile.build(ctx, u, p)
}

// DeleteAccountUseCase 注销账号
// 设计说明:
// 1. 一个事务内依次删除：用户的点赞 → 用户图书上的点赞 → 用户的图书 → 资料 → 用户
// 2. 事务提交后清理图书缓存并吊销会话，这两步失败只记录日志
type DeleteAccountUseCase struct {
	userService  user.Service
	books        book.Repository
	likes        like.Repository
	cache        book.Cache
	sessionStore *redis.SessionStore
	jwtManager   *jwt.Manager
	txManager    *gormdb.TxManager
	publisher    event.Publisher
	log          *zap.Logger
}

// NewDeleteAccountUseCase 创建注销账号用例
func NewDeleteAccountUseCase(
	userService user.Service,
	books book.Repository,
	likes like.Repository,
	cache book.Cache,
	sessionStore *redis.SessionStore,
	jwtManager *jwt.Manager,
	txManager *gormdb.TxManager,
	publisher event.Publisher,
	log *zap.Logger,
) *DeleteAccountUseCase {
	return &DeleteAccountUseCase{
		userService:  userService,
		books:        books,
		likes:        likes,
		cache:        cache,
		sessionStore: sessionStore,
		jwtManager:   jwtManager,
		txManager:    txManager,
		publisher:    publisher,
		log:          log,
	}
}

// DeleteAccountResponse 注销结果
type DeleteAccountResponse struct {
	BooksDeleted int `json:"books_deleted"`
}

// Execute 执行注销
func (uc *DeleteAccountUseCase) Execute(ctx context.Context, userID uint, accessToken string) (resp *DeleteAccountResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "user.DeleteAccount")
	defer func() { tracing.End(span, err) }()

	var slugs []string
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.likes.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		if err := uc.likes.DeleteByBooksOwnedBy(ctx, userID); err != nil {
			return err
		}
		var err error
		if slugs, err = uc.books.DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		return uc.userService.Delete(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	uc.cache.Delete(ctx, slugs...)
	if err := revoke(ctx, uc.sessionStore, uc.jwtManager, userID, accessToken); err != nil {
		uc.log.Warn("吊销会话失败", zap.Uint("user_id", userID), zap.Error(err))
	}
	uc.publisher.Publish(ctx, event.New(event.UserDeleted, event.UserPayload{UserID: userID}))

	return &DeleteAccountResponse{BooksDeleted: len(slugs)}, nil
}
