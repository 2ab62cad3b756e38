//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	appcategory "github.com/xiebiao/bookshelf/internal/application/category"
	appcontact "github.com/xiebiao/bookshelf/internal/application/contact"
	applike "github.com/xiebiao/bookshelf/internal/application/like"
	appuser "github.com/xiebiao/bookshelf/internal/application/user"
	"github.com/xiebiao/bookshelf/internal/domain/book"
	"github.com/xiebiao/bookshelf/internal/domain/category"
	"github.com/xiebiao/bookshelf/internal/domain/like"
	"github.com/xiebiao/bookshelf/internal/domain/user"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/gormdb"
	"github.com/xiebiao/bookshelf/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/internal/interface/http/router"
)

// infrastructureSet 基础设施层依赖
// 包含：数据库连接、Redis连接、事件发布者
var infrastructureSet = wire.NewSet(
	gormdb.NewDB,
	redis.NewClient,
	messaging.NewPublisher,
	provideBookCache,
	provideSlugGenerator,
	provideJWTManager,
	redis.NewSessionStore,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	gormdb.NewBookRepository,
	gormdb.NewLikeRepository,
	gormdb.NewCategoryRepository,
	gormdb.NewUserRepository,
	gormdb.NewProfileRepository,
	gormdb.NewTxManager,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	book.NewService,
	like.NewService,
	category.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewRefreshTokenUseCase,
	appuser.NewGetProfileUseCase,
	appuser.NewUpdateProfileUseCase,
	appuser.NewDeleteAccountUseCase,
	appbook.NewAddBookUseCase,
	appbook.NewAddFormUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewEditFormUseCase,
	appbook.NewDeleteBookUseCase,
	appbook.NewDeleteConfirmUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListOwnBooksUseCase,
	appbook.NewSearchBooksUseCase,
	appbook.NewListFavouritesUseCase,
	applike.NewToggleLikeUseCase,
	applike.NewRemoveFavouriteUseCase,
	appcategory.NewListCategoriesUseCase,
	appcategory.NewCreateCategoryUseCase,
	appcontact.NewSubmitContactUseCase,
)

// interfaceSet 接口层依赖：中间件、Handler、路由
var interfaceSet = wire.NewSet(
	middleware.NewAuthMiddleware,
	handler.NewUserHandler,
	handler.NewProfileHandler,
	handler.NewBookHandler,
	handler.NewLikeHandler,
	handler.NewCategoryHandler,
	handler.NewContactHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 初始化整个应用
// 配置和日志由命令行先行创建并作为参数传入
// 返回的cleanup按创建的逆序关闭MQ、Redis、数据库连接
func InitializeApp(cfg *config.Config, log *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil, nil
}
