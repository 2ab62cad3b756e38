package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	"github.com/xiebiao/bookshelf/pkg/jwt"
	"github.com/xiebiao/bookshelf/pkg/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()
	m.Run()
}

var dbSeq atomic.Int64

// newTestServer 按生产装配方式组装完整路由，存储换成内存SQLite和miniredis
func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	log := zap.NewNop()

	cfg := &config.Config{}
	cfg.Server.Mode = gin.TestMode
	cfg.Database = config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", dbSeq.Add(1)),
		MaxOpenConns: 1,
	}

	db, err := gormdb.Open(cfg.Database, false, log)
	require.NoError(t, err)
	require.NoError(t, gormdb.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	bookRepo := gormdb.NewBookRepository(db)
	likeRepo := gormdb.NewLikeRepository(db)
	tx := gormdb.NewTxManager(db)
	cache := redis.NewBookCache(client, time.Minute, log)
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("router-test-secret", 15*time.Minute, time.Hour)
	pub := messaging.NewNopPublisher(log)

	users := user.NewService(gormdb.NewUserRepository(db), gormdb.NewProfileRepository(db))
	books := book.NewService(bookRepo, book.NewSlugGenerator(100, 100), cache)
	likes := like.NewService(likeRepo, bookRepo)
	categories := category.NewService(gormdb.NewCategoryRepository(db))

	profile := appuser.NewGetProfileUseCase(users, bookRepo, likeRepo)
	return New(cfg, log, &Handlers{
		Auth: middleware.NewAuthMiddleware(jwtManager, sessions),
		User: handler.NewUserHandler(
			appuser.NewRegisterUseCase(users, tx, pub),
			appuser.NewLoginUseCase(users, jwtManager, sessions, log),
			appuser.NewLogoutUseCase(sessions, jwtManager),
			appuser.NewRefreshTokenUseCase(users, jwtManager, sessions),
		),
		Profile: handler.NewProfileHandler(
			profile,
			appuser.NewUpdateProfileUseCase(users, profile),
			appuser.NewDeleteAccountUseCase(users, bookRepo, likeRepo, cache, sessions, jwtManager, tx, pub, log),
		),
		Book: handler.NewBookHandler(
			appbook.NewAddBookUseCase(books, categories, pub),
			appbook.NewAddFormUseCase(categories),
			appbook.NewUpdateBookUseCase(books, categories, pub),
			appbook.NewEditFormUseCase(books, categories),
			appbook.NewDeleteBookUseCase(books, likeRepo, tx, pub),
			appbook.NewDeleteConfirmUseCase(books),
			appbook.NewGetBookUseCase(books, likes),
			appbook.NewListOwnBooksUseCase(books, likes),
			appbook.NewSearchBooksUseCase(books, likes),
			appbook.NewListFavouritesUseCase(books),
		),
		Like: handler.NewLikeHandler(
			applike.NewToggleLikeUseCase(likes, pub),
			applike.NewRemoveFavouriteUseCase(likes, pub),
		),
		Category: handler.NewCategoryHandler(
			appcategory.NewListCategoriesUseCase(categories),
			appcategory.NewCreateCategoryUseCase(categories),
		),
		Contact: handler.NewContactHandler(appcontact.NewSubmitContactUseCase(pub)),
	})
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type redirectData struct {
	Message    string          `json:"message"`
	RedirectTo string          `json:"redirect_to"`
	Result     json.RawMessage `json:"result"`
}

type pageData struct {
	List  []appbook.BookView `json:"list"`
	Total int64              `json:"total"`
}

type client struct {
	t       *testing.T
	engine  *gin.Engine
	token   string
	refresh string
}

func (c *client) do(method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)
	require.Equal(c.t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (c *client) ok(method, path string, body interface{}, out interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	w, env := c.do(method, path, body)
	require.Equal(c.t, 0, env.Code, w.Body.String())
	if out != nil {
		require.NoError(c.t, json.Unmarshal(env.Data, out))
	}
	return w
}

func signUp(t *testing.T, engine *gin.Engine, email string) *client {
	t.Helper()
	anon := &client{t: t, engine: engine}
	anon.ok(http.MethodPost, "/api/v1/users/register", gin.H{"email": email, "password": "secret123", "nickname": "reader"}, nil)

	var login appuser.LoginResponse
	anon.ok(http.MethodPost, "/api/v1/users/login", gin.H{"email": email, "password": "secret123"}, &login)
	require.NotEmpty(t, login.AccessToken)
	return &client{t: t, engine: engine, token: login.AccessToken, refresh: login.RefreshToken}
}

func duneForm(categoryID uint) gin.H {
	return gin.H{
		"title": "Dune", "author": "Frank Herbert", "full_description": "Arrakis",
		"image": "covers/dune.jpg", "category_id": categoryID,
	}
}

func TestScenario(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	bob := signUp(t, engine, "bob@example.com")

	var cat appcategory.CategoryResponse
	alice.ok(http.MethodPost, "/api/v1/categories", gin.H{"name": "Science Fiction"}, &cat)

	// 同名图书 → dune, dune-1
	var slugs []string
	for i := 0; i < 2; i++ {
		var data redirectData
		w := alice.ok(http.MethodPost, "/api/v1/books/add", duneForm(cat.ID), &data)
		assert.Equal(t, "/api/v1/books/user", w.Header().Get("Location"))
		assert.Equal(t, "图书《Dune》添加成功", data.Message)

		var b appbook.BookView
		require.NoError(t, json.Unmarshal(data.Result, &b))
		slugs = append(slugs, b.Slug)
	}
	assert.Equal(t, []string{"dune", "dune-1"}, slugs)

	// alice在详情页切换两次
	var toggle redirectData
	w := alice.ok(http.MethodPost, "/api/v1/books/dune/like-detail", nil, &toggle)
	assert.Equal(t, "/api/v1/books/dune", w.Header().Get("Location"))
	assert.Contains(t, string(toggle.Result), `"liked":true`)

	var detail appbook.BookView
	alice.ok(http.MethodGet, "/api/v1/books/dune", nil, &detail)
	assert.True(t, detail.LikedByUser)
	require.NotNil(t, detail.LikesCount)
	assert.EqualValues(t, 1, *detail.LikesCount)

	w = alice.ok(http.MethodPost, "/api/v1/books/dune/like?q=dun%20e", nil, &toggle)
	assert.Equal(t, "/api/v1/books/search?q=dun+e", w.Header().Get("Location"))
	assert.Contains(t, string(toggle.Result), `"liked":false`)

	// bob搜索dun → 两本
	var page pageData
	bob.ok(http.MethodGet, "/api/v1/books/search?q=DUN", nil, &page)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.List, 2)

	bob.ok(http.MethodGet, "/api/v1/books/search?q=zzz", nil, &page)
	assert.Zero(t, page.Total)
	assert.Empty(t, page.List)
}

func TestAuthRequired(t *testing.T) {
	engine := newTestServer(t)
	anon := &client{t: t, engine: engine}

	w, env := anon.do(http.MethodGet, "/api/v1/books/search", nil)
	assert.Equal(t, 40100, env.Code)
	assert.Equal(t, middleware.LoginPath, w.Header().Get("Location"))
	assert.Contains(t, string(env.Data), middleware.LoginPath)

	bad := &client{t: t, engine: engine, token: "not-a-jwt"}
	_, env = bad.do(http.MethodGet, "/api/v1/books/search", nil)
	assert.Equal(t, 40101, env.Code)

	// 公开接口
	var cats []appcategory.CategoryResponse
	anon.ok(http.MethodGet, "/api/v1/categories", nil, &cats)
	assert.Empty(t, cats)
}

func TestLogout_RevokesToken(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")

	alice.ok(http.MethodPost, "/api/v1/users/logout", nil, nil)

	_, env := alice.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, 40102, env.Code)
}

func TestRefreshToken(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	anon := &client{t: t, engine: engine}

	var refreshed appuser.RefreshTokenResponse
	anon.ok(http.MethodPost, "/api/v1/users/refresh", gin.H{"refresh_token": alice.refresh}, &refreshed)
	require.NotEmpty(t, refreshed.AccessToken)
	assert.EqualValues(t, 15*60, refreshed.ExpiresIn)

	// 新Token可以访问受保护接口，昵称取当前资料
	alice.ok(http.MethodPut, "/api/v1/profile", gin.H{"nickname": "alice2"}, nil)
	anon.ok(http.MethodPost, "/api/v1/users/refresh", gin.H{"refresh_token": alice.refresh}, &refreshed)
	fresh := &client{t: t, engine: engine, token: refreshed.AccessToken}
	var profile appuser.ProfileResponse
	fresh.ok(http.MethodGet, "/api/v1/profile", nil, &profile)
	assert.Equal(t, "alice2", profile.Nickname)

	// Refresh Token不能当Access Token用，反之亦然
	asBearer := &client{t: t, engine: engine, token: alice.refresh}
	_, env := asBearer.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, 40101, env.Code)

	_, env = anon.do(http.MethodPost, "/api/v1/users/refresh", gin.H{"refresh_token": alice.token})
	assert.Equal(t, 40101, env.Code)

	_, env = anon.do(http.MethodPost, "/api/v1/users/refresh", gin.H{})
	assert.Equal(t, 40900, env.Code)

	// 登出后会话删除，Refresh Token失效
	alice.ok(http.MethodPost, "/api/v1/users/logout", nil, nil)
	_, env = anon.do(http.MethodPost, "/api/v1/users/refresh", gin.H{"refresh_token": alice.refresh})
	assert.Equal(t, 40100, env.Code)
}

func TestAddBook_ValidationErrors(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")

	_, env := alice.do(http.MethodPost, "/api/v1/books/add", gin.H{"title": "   ", "author": "A", "full_description": "x", "image": "i"})
	assert.Equal(t, 40900, env.Code)
	assert.Contains(t, string(env.Data), `"field":"title"`)
	assert.Contains(t, string(env.Data), `"field":"category_id"`)

	// 分类不存在
	_, env = alice.do(http.MethodPost, "/api/v1/books/add", duneForm(42))
	assert.Equal(t, 40900, env.Code)
	assert.Contains(t, string(env.Data), `"rule":"exists"`)

	_, env = alice.do(http.MethodPost, "/api/v1/books/add", "not an object")
	assert.Equal(t, 40901, env.Code)

	var page pageData
	alice.ok(http.MethodGet, "/api/v1/books/user", nil, &page)
	assert.Zero(t, page.Total)
}

func TestEditAndDelete_OwnerOnly(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")
	bob := signUp(t, engine, "bob@example.com")

	var cat appcategory.CategoryResponse
	alice.ok(http.MethodPost, "/api/v1/categories", gin.H{"name": "Science Fiction"}, &cat)
	alice.ok(http.MethodPost, "/api/v1/books/add", duneForm(cat.ID), nil)
	bob.ok(http.MethodPost, "/api/v1/books/dune/like-detail", nil, nil)

	form := duneForm(cat.ID)
	form["title"] = "Dune Messiah"
	form["status"] = "published"

	_, env := bob.do(http.MethodPost, "/api/v1/books/dune/edit", form)
	assert.Equal(t, 40104, env.Code)
	_, env = bob.do(http.MethodGet, "/api/v1/books/dune/delete", nil)
	assert.Equal(t, 40104, env.Code)

	var data redirectData
	alice.ok(http.MethodPost, "/api/v1/books/dune/edit", form, &data)
	var updated appbook.BookView
	require.NoError(t, json.Unmarshal(data.Result, &updated))
	assert.Equal(t, "dune", updated.Slug)
	assert.Equal(t, "published", updated.Status)

	_, env = alice.do(http.MethodPost, "/api/v1/books/dune/delete-confirm", gin.H{"confirm": false})
	assert.Equal(t, 40007, env.Code)

	var prompt appbook.DeleteConfirmResponse
	alice.ok(http.MethodGet, "/api/v1/books/dune/delete-confirm", nil, &prompt)
	assert.Equal(t, "Dune Messiah", prompt.Book.Title)

	w := alice.ok(http.MethodPost, "/api/v1/books/dune/delete-confirm", gin.H{"confirm": true}, nil)
	assert.Equal(t, "/api/v1/books/user", w.Header().Get("Location"))

	// 点赞随图书一起删除
	var page pageData
	bob.ok(http.MethodGet, "/api/v1/books/favourites", nil, &page)
	assert.Zero(t, page.Total)

	_, env = alice.do(http.MethodGet, "/api/v1/books/dune", nil)
	assert.Equal(t, 40402, env.Code)
}

func TestUnlike_Idempotent(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")

	var cat appcategory.CategoryResponse
	alice.ok(http.MethodPost, "/api/v1/categories", gin.H{"name": "Fantasy"}, &cat)
	alice.ok(http.MethodPost, "/api/v1/books/add", duneForm(cat.ID), nil)

	for i := 0; i < 2; i++ {
		w := alice.ok(http.MethodGet, "/api/v1/books/dune/unlike", nil, nil)
		assert.Equal(t, "/api/v1/books/favourites", w.Header().Get("Location"))
	}

	_, env := alice.do(http.MethodGet, "/api/v1/books/nope/unlike", nil)
	assert.Equal(t, 40402, env.Code)
}

func TestProfileAndContact(t *testing.T) {
	engine := newTestServer(t)
	alice := signUp(t, engine, "alice@example.com")

	var p appuser.ProfileResponse
	alice.ok(http.MethodPut, "/api/v1/profile", gin.H{"nickname": "Alice"}, &p)
	assert.Equal(t, "Alice", p.Nickname)
	assert.Equal(t, "profile_image", p.Image)

	anon := &client{t: t, engine: engine}
	_, env := anon.do(http.MethodPost, "/api/v1/contact", gin.H{"name": "Z", "email": "bad", "message": "hi"})
	assert.Equal(t, 40900, env.Code)
	anon.ok(http.MethodPost, "/api/v1/contact", gin.H{"name": "Z", "email": "z@example.com", "message": "hi"}, nil)

	alice.ok(http.MethodDelete, "/api/v1/profile", nil, nil)
	_, env = alice.do(http.MethodGet, "/api/v1/profile", nil)
	assert.Equal(t, 40102, env.Code)
}

func TestPingAndMetrics(t *testing.T) {
	engine := newTestServer(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}
