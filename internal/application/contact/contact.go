// Package contact 联系我们
// 消息不落库，作为contact.submitted事件交给下游处理(邮件、工单等)
package contact

import (
	"context"
	"strings"

	"github.com/xiebiao/bookshelf/internal/domain/event"
)

// SubmitContactUseCase 提交联系消息
type SubmitContactUseCase struct {
	publisher event.Publisher
}

// NewSubmitContactUseCase 创建联系消息用例
func NewSubmitContactUseCase(publisher event.Publisher) *SubmitContactUseCase {
	return &SubmitContactUseCase{publisher: publisher}
}

// SubmitContactRequest 联系消息(字段已由HTTP层校验)
type SubmitContactRequest struct {
	Name    string
	Email   string
	Message string
}

// SubmitContactResponse 回执
type SubmitContactResponse struct {
	EventID string `json:"event_id"`
	Message string `json:"-"`
}

// Execute 发布联系消息事件
func (uc *SubmitContactUseCase) Execute(ctx context.Context, req SubmitContactRequest) (*SubmitContactResponse, error) {
	e := event.New(event.ContactSubmitted, event.ContactPayload{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: strings.TrimSpace(req.Message),
	})
	uc.publisher.Publish(ctx, e)

	return &SubmitContactResponse{EventID: e.ID, Message: "感谢您的留言，我们会尽快回复"}, nil
}
