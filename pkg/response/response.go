package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（非HTTP状态码），方便客户端判断错误类型
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Redirect 写操作成功后的确认信息与跳转目标
// Location同时写入响应头，前端可以直接跟随
type Redirect struct {
	Message    string      `json:"message"`
	RedirectTo string      `json:"redirect_to"`
	Result     interface{} `json:"result,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithRedirect 写操作成功：返回确认信息并指明跳转地址
func SuccessWithRedirect(c *gin.Context, message, location string, result interface{}) {
	c.Header("Location", location)
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data: Redirect{
			Message:    message,
			RedirectTo: location,
			Result:     result,
		},
	})
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := bookService.AddBook(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	// 提取AppError
	appErr := apperrors.GetAppError(err)

	// 内部错误只记日志，不返回给客户端
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(appErr.Err),
		)
	}

	var data interface{}
	if len(appErr.Fields) > 0 {
		data = gin.H{"errors": appErr.Fields}
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    data,
	})
}

// ErrorWithRedirect 错误响应并附带跳转地址（未登录时跳转登录页）
func ErrorWithRedirect(c *gin.Context, err error, location string) {
	appErr := apperrors.GetAppError(err)
	c.Header("Location", location)
	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    gin.H{"redirect_to": location},
	})
}

// =========================================
// 分页响应结构
// =========================================

// PageData 分页数据封装
type PageData struct {
	List       interface{} `json:"list"`        // 数据列表
	Total      int64       `json:"total"`       // 总记录数
	Page       int         `json:"page"`        // 当前页码
	PageSize   int         `json:"page_size"`   // 每页大小（0表示未分页）
	TotalPages int         `json:"total_pages"` // 总页数
}

// NewPageData 创建分页数据
// pageSize<=0 表示一次返回全部结果，此时只有1页
func NewPageData(list interface{}, total int64, page, pageSize int) *PageData {
	totalPages := 1
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize != 0 {
			totalPages++
		}
	}

	return &PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	Success(c, NewPageData(list, total, page, pageSize))
}
