// Package validator 扩展gin的参数校验：自定义规则 + 结构化字段错误
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

var once sync.Once

// Setup 向gin的默认校验引擎注册自定义规则（进程内只执行一次）
// 1. notblank：去除首尾空白后不能为空（required对"   "无效）
// 2. 字段名取json/form标签，返回给客户端的field与请求参数一致
func Setup() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("notblank", notBlank)
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return !field.IsZero()
	}
	return strings.TrimSpace(field.String()) != ""
}

// FromBindError 把ShouldBind返回的错误转换为AppError
// - 校验失败：ErrInvalidParams + 字段错误列表
// - 其他（JSON格式错误、类型不匹配）：ErrBindError
func FromBindError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation(TranslateErrors(verrs)...)
	}
	return &apperrors.AppError{
		Code:    apperrors.ErrCodeBindError,
		Message: apperrors.ErrBindError.Message,
		Err:     err,
	}
}

// TranslateErrors 校验错误 → 字段错误
func TranslateErrors(verrs validator.ValidationErrors) []apperrors.FieldError {
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "该字段不能为空"
	case "max":
		return fmt.Sprintf("长度不能超过%s", fe.Param())
	case "min":
		return fmt.Sprintf("长度不能少于%s", fe.Param())
	case "email":
		return "邮箱格式不正确"
	case "oneof":
		return fmt.Sprintf("取值必须是[%s]之一", fe.Param())
	case "gt":
		return fmt.Sprintf("必须大于%s", fe.Param())
	default:
		return fmt.Sprintf("未通过%s校验", fe.Tag())
	}
}
