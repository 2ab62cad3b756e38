package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookshelf/internal/application/book"
	"github.com/xiebiao/bookshelf/internal/interface/http/dto"
	"github.com/xiebiao/bookshelf/internal/interface/http/middleware"
	"github.com/xiebiao/bookshelf/pkg/response"
	"github.com/xiebiao/bookshelf/pkg/validator"
)

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. 当前用户ID只在这里从Context读取一次，之后作为参数显式传给用例
// 2. 写操作成功后返回确认信息和跳转地址(Location)
type BookHandler struct {
	add           *appbook.AddBookUseCase
	addForm       *appbook.AddFormUseCase
	update        *appbook.UpdateBookUseCase
	editForm      *appbook.EditFormUseCase
	remove        *appbook.DeleteBookUseCase
	deleteConfirm *appbook.DeleteConfirmUseCase
	detail        *appbook.GetBookUseCase
	own           *appbook.ListOwnBooksUseCase
	search        *appbook.SearchBooksUseCase
	favourites    *appbook.ListFavouritesUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	add *appbook.AddBookUseCase,
	addForm *appbook.AddFormUseCase,
	update *appbook.UpdateBookUseCase,
	editForm *appbook.EditFormUseCase,
	remove *appbook.DeleteBookUseCase,
	deleteConfirm *appbook.DeleteConfirmUseCase,
	detail *appbook.GetBookUseCase,
	own *appbook.ListOwnBooksUseCase,
	search *appbook.SearchBooksUseCase,
	favourites *appbook.ListFavouritesUseCase,
) *BookHandler {
	return &BookHandler{
		add:           add,
		addForm:       addForm,
		update:        update,
		editForm:      editForm,
		remove:        remove,
		deleteConfirm: deleteConfirm,
		detail:        detail,
		own:           own,
		search:        search,
		favourites:    favourites,
	}
}

// AddForm 添加图书表单
// @Summary      添加图书表单
// @Description  返回可选分类列表
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appbook.AddFormResponse}
// @Router       /api/v1/books/add [get]
func (h *BookHandler) AddForm(c *gin.Context) {
	result, err := h.addForm.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddBook 添加图书
// @Summary      添加图书
// @Description  创建草稿状态的图书，slug由标题生成
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookForm true "图书信息"
// @Success      200 {object} response.Response{data=response.Redirect{result=appbook.BookView}}
// @Failure      200 {object} response.Response "40900参数错误 / 40100未登录"
// @Router       /api/v1/books/add [post]
func (h *BookHandler) AddBook(c *gin.Context) {
	// 1. 绑定并校验(校验失败不会写库)
	var req dto.BookForm
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	// 2. 调用应用层用例
	result, err := h.add.Execute(c.Request.Context(), appbook.AddBookRequest{
		ActorID:   middleware.MustGetUserID(c),
		BookInput: bookInput(req),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 确认信息 + 跳转到"我的图书"
	response.SuccessWithRedirect(c, result.Message, appbook.OwnListPath, result.Book)
}

// EditForm 编辑图书表单
// @Summary      编辑图书表单
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=appbook.EditFormResponse}
// @Failure      200 {object} response.Response "40402图书不存在 / 40104无权限"
// @Router       /api/v1/books/{slug}/edit [get]
func (h *BookHandler) EditForm(c *gin.Context) {
	result, err := h.editForm.Execute(c.Request.Context(), c.Param("slug"), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 编辑图书
// @Summary      编辑图书
// @Description  只有创建者可以编辑，slug保持不变
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug    path string       true "图书slug"
// @Param        request body dto.BookForm true "图书信息"
// @Success      200 {object} response.Response{data=response.Redirect{result=appbook.BookView}}
// @Failure      200 {object} response.Response "40402图书不存在 / 40104无权限 / 40900参数错误"
// @Router       /api/v1/books/{slug}/edit [post]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.BookForm
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		Slug:      c.Param("slug"),
		ActorID:   middleware.MustGetUserID(c),
		BookInput: bookInput(req),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithRedirect(c, result.Message, appbook.OwnListPath, result.Book)
}

// DeleteBook 直接删除图书
// @Summary      删除图书
// @Description  不经确认直接删除，同时删除该书的所有点赞
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=response.Redirect}
// @Failure      200 {object} response.Response "40402图书不存在 / 40104无权限"
// @Router       /api/v1/books/{slug}/delete [get]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	h.doDelete(c, appbook.DeleteBookRequest{
		Slug:    c.Param("slug"),
		ActorID: middleware.MustGetUserID(c),
	})
}

// DeleteConfirmForm 删除确认页
// @Summary      删除确认页
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=appbook.DeleteConfirmResponse}
// @Router       /api/v1/books/{slug}/delete-confirm [get]
func (h *BookHandler) DeleteConfirmForm(c *gin.Context) {
	result, err := h.deleteConfirm.Execute(c.Request.Context(), c.Param("slug"), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteConfirmed 确认后删除
// @Summary      确认删除图书
// @Description  confirm必须为true，否则返回40007
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        slug    path string                   true "图书slug"
// @Param        request body dto.DeleteConfirmRequest true "确认"
// @Success      200 {object} response.Response{data=response.Redirect}
// @Failure      200 {object} response.Response "40007需要确认"
// @Router       /api/v1/books/{slug}/delete-confirm [post]
func (h *BookHandler) DeleteConfirmed(c *gin.Context) {
	var req dto.DeleteConfirmRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	h.doDelete(c, appbook.DeleteBookRequest{
		Slug:           c.Param("slug"),
		ActorID:        middleware.MustGetUserID(c),
		RequireConfirm: true,
		Confirmed:      req.Confirm,
	})
}

func (h *BookHandler) doDelete(c *gin.Context, req appbook.DeleteBookRequest) {
	result, err := h.remove.Execute(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithRedirect(c, result.Message, appbook.OwnListPath, gin.H{"slug": result.Slug})
}

// Detail 图书详情
// @Summary      图书详情
// @Description  包含当前用户是否点赞和点赞总数
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        slug path string true "图书slug"
// @Success      200 {object} response.Response{data=appbook.BookView}
// @Failure      200 {object} response.Response "40402图书不存在"
// @Router       /api/v1/books/{slug} [get]
func (h *BookHandler) Detail(c *gin.Context) {
	result, err := h.detail.Execute(c.Request.Context(), c.Param("slug"), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOwn 我的图书
// @Summary      我的图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量(不传返回全部)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookView}}
// @Router       /api/v1/books/user [get]
func (h *BookHandler) ListOwn(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.own.Execute(c.Request.Context(), middleware.MustGetUserID(c), paging(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	successWithList(c, result)
}

// Search 搜索图书
// @Summary      搜索图书
// @Description  按标题、作者或分类名模糊匹配(不区分大小写)，q为空返回全部
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        q         query string false "关键词"
// @Param        page      query int    false "页码"
// @Param        page_size query int    false "每页数量(不传返回全部)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookView}}
// @Router       /api/v1/books/search [get]
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.search.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Query:   q.Q,
		ActorID: middleware.MustGetUserID(c),
		Paging:  paging(q.PageQuery),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	successWithList(c, result)
}

// Favourites 我的收藏
// @Summary      我的收藏
// @Tags         收藏
// @Produce      json
// @Security     BearerAuth
// @Param        page      query int false "页码"
// @Param        page_size query int false "每页数量(不传返回全部)"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookView}}
// @Router       /api/v1/books/favourites [get]
func (h *BookHandler) Favourites(c *gin.Context) {
	var q dto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, validator.FromBindError(err))
		return
	}

	result, err := h.favourites.Execute(c.Request.Context(), middleware.MustGetUserID(c), paging(q))
	if err != nil {
		response.Error(c, err)
		return
	}
	successWithList(c, result)
}

func bookInput(req dto.BookForm) appbook.BookInput {
	return appbook.BookInput{
		Title:            req.Title,
		Author:           req.Author,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		Image:            req.Image,
		CategoryID:       req.CategoryID,
		Status:           req.Status,
	}
}

func paging(q dto.PageQuery) appbook.Paging {
	return appbook.Paging{Page: q.Page, PageSize: q.PageSize}
}

func successWithList(c *gin.Context, result *appbook.ListResult) {
	page := result.Page
	if page == 0 {
		page = 1
	}
	response.SuccessWithPage(c, result.Books, result.Total, page, result.PageSize)
}
