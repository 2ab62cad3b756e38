// Package router 组装gin引擎：全局中间件 + 路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/internal/interface/http/handler"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// Handlers 路由需要的全部处理器(由wire.Struct注入)
type Handlers struct {
	Auth     *middleware.AuthMiddleware
	User     *handler.UserHandler
	Profile  *handler.ProfileHandler
	Book     *handler.BookHandler
	Like     *handler.LikeHandler
	Category *handler.CategoryHandler
	Contact  *handler.ContactHandler
}

// New 创建并配置Gin引擎
// 中间件顺序：Recovery → 请求日志(含trace) → 指标 → CORS → 路由级认证
func New(cfg *config.Config, log *zap.Logger, h *Handlers) *gin.Engine {
	if cfg.Server.Mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log, cfg.Server.SlowRequest),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS.AllowOrigins),
	)

	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 访问 /swagger/index.html 查看API文档，生产环境建议关闭
	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	{
		// 公开接口
		users := v1.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)
			users.POST("/refresh", h.User.Refresh)
			users.POST("/logout", h.Auth.RequireAuth(), h.User.Logout)
		}
		v1.GET("/categories", h.Category.List)
		v1.POST("/contact", h.Contact.Submit)

		// 需要登录
		authorized := v1.Group("")
		authorized.Use(h.Auth.RequireAuth())
		{
			authorized.POST("/categories", h.Category.Create)

			authorized.GET("/profile", h.Profile.Get)
			authorized.PUT("/profile", h.Profile.Update)
			authorized.DELETE("/profile", h.Profile.Delete)

			// 静态路径(add/user/search/favourites)优先于:slug，
			// 这几个词是保留slug，图书标题不会生成它们
			books := authorized.Group("/books")
			{
				books.GET("/add", h.Book.AddForm)
				books.POST("/add", h.Book.AddBook)
				books.GET("/user", h.Book.ListOwn)
				books.GET("/search", h.Book.Search)
				books.GET("/favourites", h.Book.Favourites)

				books.GET("/:slug", h.Book.Detail)
				books.GET("/:slug/edit", h.Book.EditForm)
				books.POST("/:slug/edit", h.Book.UpdateBook)
				books.GET("/:slug/delete", h.Book.DeleteBook)
				books.GET("/:slug/delete-confirm", h.Book.DeleteConfirmForm)
				books.POST("/:slug/delete-confirm", h.Book.DeleteConfirmed)

				books.POST("/:slug/like", h.Like.ToggleFromSearch)
				books.POST("/:slug/like-detail", h.Like.ToggleFromDetail)
				books.GET("/:slug/unlike", h.Like.RemoveFavourite)
			}
		}
	}

	return r
}
