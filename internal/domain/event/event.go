// Package event 领域事件
// 事件在业务操作成功后发布到消息队列，发布失败只记录日志，不影响业务结果
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// 事件类型(同时作为RabbitMQ routing key)
const (
	BookCreated      = "book.created"
	BookUpdated      = "book.updated"
	BookDeleted      = "book.deleted"
	BookLiked        = "book.liked"
	BookUnliked      = "book.unliked"
	UserRegistered   = "user.registered"
	UserDeleted      = "user.deleted"
	ContactSubmitted = "contact.submitted"
)

// Event 领域事件
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

// New 创建事件
func New(eventType string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// Publisher 事件发布者
// 没有返回值：发布是尽力而为的，实现自行处理和记录错误
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// BookPayload 图书相关事件的负载
type BookPayload struct {
	BookID  uint   `json:"book_id"`
	Slug    string `json:"slug"`
	Title   string `json:"title,omitempty"`
	ActorID uint   `json:"actor_id"`
}

// UserPayload 用户相关事件的负载
type UserPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email,omitempty"`
}

// ContactPayload 联系消息
type ContactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
