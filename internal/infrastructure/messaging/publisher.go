// Package messaging 领域事件发布
// 事件经熔断器发往RabbitMQ topic交换机，routing key即事件类型
package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshelf/internal/domain/event"
	"github.com/xiebiao/bookshelf/internal/infrastructure/config"
	"github.com/xiebiao/bookshelf/pkg/circuitbreaker"
	"github.com/xiebiao/bookshelf/pkg/metrics"
	"github.com/xiebiao/bookshelf/pkg/mq"
)

// publishTimeout 单次发布的超时时间，请求路径上不能被MQ拖慢
const publishTimeout = 2 * time.Second

// Sender 底层消息发送(由*mq.Publisher实现)
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// EventPublisher 经熔断器发布领域事件
// 设计说明:
// 1. 发布失败只记录日志和指标，不向调用方返回错误
// 2. RabbitMQ不可用时熔断器打开，后续事件直接丢弃(快速失败)，超时后半开探测
type EventPublisher struct {
	sender   Sender
	exchange string
	breaker  *circuitbreaker.CircuitBreaker
	log      *zap.Logger
}

var _ event.Publisher = (*EventPublisher)(nil)

// NewEventPublisher 创建事件发布者
func NewEventPublisher(sender Sender, exchange string, breaker *circuitbreaker.CircuitBreaker, log *zap.Logger) *EventPublisher {
	return &EventPublisher{
		sender:   sender,
		exchange: exchange,
		breaker:  breaker,
		log:      log.Named("events"),
	}
}

// Publish 发布事件(尽力而为)
func (p *EventPublisher) Publish(ctx context.Context, e event.Event) {
	// 请求结束后ctx会被取消，发布使用独立的超时
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	err := p.breaker.ExecuteContext(pubCtx, func(ctx context.Context) error {
		return p.sender.Publish(ctx, e.Type, e)
	})

	switch {
	case err == nil:
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": p.breaker.Name(), "result": "success"})
		metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{"exchange": p.exchange, "routing_key": e.Type})
		p.log.Debug("事件已发布", zap.String("type", e.Type), zap.String("event_id", e.ID))
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": p.breaker.Name(), "result": "rejected"})
		metrics.IncCounterVec(metrics.MessagesDroppedTotal, map[string]string{"routing_key": e.Type, "reason": "breaker_open"})
		p.log.Warn("熔断器打开，事件被丢弃", zap.String("type", e.Type), zap.String("event_id", e.ID))
	default:
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": p.breaker.Name(), "result": "failure"})
		metrics.IncCounterVec(metrics.MessagesDroppedTotal, map[string]string{"routing_key": e.Type, "reason": "error"})
		p.log.Error("事件发布失败", zap.String("type", e.Type), zap.String("event_id", e.ID), zap.Error(err))
	}
}

// NopPublisher 未启用MQ时使用，只记录Debug日志
type NopPublisher struct {
	log *zap.Logger
}

// NewNopPublisher 创建空发布者
func NewNopPublisher(log *zap.Logger) *NopPublisher {
	return &NopPublisher{log: log.Named("events")}
}

// Publish 不发送
func (p *NopPublisher) Publish(_ context.Context, e event.Event) {
	p.log.Debug("MQ未启用，忽略事件", zap.String("type", e.Type), zap.String("event_id", e.ID))
}

// NewBreaker 事件发布熔断器，状态变化写入日志和指标
func NewBreaker(cfg config.MQConfig, log *zap.Logger) *circuitbreaker.CircuitBreaker {
	maxFailures := cfg.BreakerMaxFailures
	cb := circuitbreaker.NewCircuitBreaker("event_publisher", circuitbreaker.Config{
		Interval: cfg.BreakerInterval,
		Timeout:  cfg.BreakerTimeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		log.Warn("熔断器状态变化", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
	})
	return cb
}

// NewPublisher 按配置创建事件发布者
// mq.enabled=false 或连接失败时退化为NopPublisher：事件是附带通知，不能阻止服务启动
func NewPublisher(cfg *config.Config, log *zap.Logger) (event.Publisher, func()) {
	if !cfg.MQ.Enabled {
		return NewNopPublisher(log), func() {}
	}

	sender, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		log.Error("连接RabbitMQ失败，领域事件将被丢弃", zap.Error(err))
		return NewNopPublisher(log), func() {}
	}

	cleanup := func() {
		if err := sender.Close(); err != nil {
			log.Warn("关闭RabbitMQ连接失败", zap.Error(err))
		}
	}
	return NewEventPublisher(sender, cfg.MQ.Exchange, NewBreaker(cfg.MQ, log), log), cleanup
}
