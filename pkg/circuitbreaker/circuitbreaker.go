// Package circuitbreaker 实现熔断器模式（Circuit Breaker Pattern）
//
// 熔断器核心思想：
// 1. 监控下游调用的成功与失败
// 2. 连续失败超过阈值时，快速失败（打开熔断器）
// 3. 过一段时间后尝试恢复（半开状态）
//
// 本项目用它保护领域事件发布：RabbitMQ不可用时，请求不会在发布上反复等待超时。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	// StateClosed 关闭状态（正常），统计失败次数，达到阈值时转为OPEN
	StateClosed State = iota

	// StateOpen 打开状态（熔断），所有请求快速失败，Timeout后转为HALF_OPEN
	StateOpen

	// StateHalfOpen 半开状态（探测），放行MaxRequests个请求：成功则CLOSED，失败则回到OPEN
	StateHalfOpen
)

// String 状态转字符串（便于日志）
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Config 熔断器配置
type Config struct {
	// MaxRequests 半开状态下允许的最大请求数（0按1处理）
	MaxRequests uint32

	// Interval 关闭状态下的统计窗口，过期后清零计数（0表示不清零）
	Interval time.Duration

	// Timeout OPEN状态持续时间（0按60秒处理）
	Timeout time.Duration

	// ReadyToTrip 关闭状态下每次失败后调用，返回true时熔断
	// 为nil时使用默认策略：连续失败5次
	ReadyToTrip func(counts Counts) bool

	// IsSuccessful 判断一次调用是否算成功（nil表示err==nil才算成功）
	// 例如调用方主动取消（context.Canceled）不应该算作下游故障
	IsSuccessful func(err error) bool
}

// Counts 统计数据
type Counts struct {
	Requests             uint32 // 总请求数
	TotalSuccesses       uint32 // 总成功数
	TotalFailures        uint32 // 总失败数
	ConsecutiveSuccesses uint32 // 连续成功数
	ConsecutiveFailures  uint32 // 连续失败数
}

// Reset 清零
func (c *Counts) Reset() {
	*c = Counts{}
}

// Requests已经在beforeRequest中递增
func (c *Counts) onSuccess() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) onFailure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// CircuitBreaker 熔断器
type CircuitBreaker struct {
	name         string
	maxRequests  uint32
	interval     time.Duration
	timeout      time.Duration
	readyToTrip  func(counts Counts) bool
	isSuccessful func(err error) bool

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增，丢弃旧generation请求的结果
	counts     Counts
	expiry     time.Time

	onStateChange func(name string, from State, to State)
}

// ErrOpenState 熔断器打开（或半开状态探测名额已满）
var ErrOpenState = errors.New("circuit breaker is open")

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(name string, config Config) *CircuitBreaker {
	cb := &CircuitBreaker{
		name:         name,
		maxRequests:  config.MaxRequests,
		interval:     config.Interval,
		timeout:      config.Timeout,
		readyToTrip:  config.ReadyToTrip,
		isSuccessful: config.IsSuccessful,
		state:        StateClosed,
	}

	if cb.maxRequests == 0 {
		cb.maxRequests = 1
	}
	if cb.timeout <= 0 {
		cb.timeout = 60 * time.Second
	}
	if cb.readyToTrip == nil {
		cb.readyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 5
		}
	}
	if cb.isSuccessful == nil {
		cb.isSuccessful = func(err error) bool { return err == nil }
	}
	if cb.interval > 0 {
		cb.expiry = time.Now().Add(cb.interval)
	}

	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// SetStateChangeCallback 设置状态变化回调（回调在锁外执行，可以安全地读取State）
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(name string, from State, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute 通过熔断器执行req
// 熔断时不调用req，直接返回ErrOpenState
func (cb *CircuitBreaker) Execute(req func() error) error {
	generation, err := cb.beforeRequest()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			cb.afterRequest(generation, false)
			panic(r)
		}
	}()

	err = req()
	cb.afterRequest(generation, cb.isSuccessful(err))
	return err
}

// ExecuteContext 与Execute相同，但在执行前检查ctx是否已取消
func (cb *CircuitBreaker) ExecuteContext(ctx context.Context, req func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return cb.Execute(func() error { return req(ctx) })
}

func (cb *CircuitBreaker) beforeRequest() (uint64, error) {
	cb.mu.Lock()
	now := time.Now()
	state, generation, change := cb.currentState(now)

	var err error
	switch {
	case state == StateOpen:
		err = ErrOpenState
	case state == StateHalfOpen && cb.counts.Requests >= cb.maxRequests:
		err = ErrOpenState
	default:
		cb.counts.Requests++
	}
	cb.mu.Unlock()

	change.fire()
	return generation, err
}

func (cb *CircuitBreaker) afterRequest(before uint64, success bool) {
	cb.mu.Lock()
	now := time.Now()
	state, generation, change := cb.currentState(now)

	// 状态已切换，本次结果属于旧的统计周期
	if generation == before {
		var next *transition
		if success {
			next = cb.onSuccess(state, now)
		} else {
			next = cb.onFailure(state, now)
		}
		if next != nil {
			change = next
		}
	}
	cb.mu.Unlock()

	change.fire()
}

func (cb *CircuitBreaker) onSuccess(state State, now time.Time) *transition {
	cb.counts.onSuccess()

	if state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.maxRequests {
		return cb.setState(StateClosed, now)
	}
	return nil
}

func (cb *CircuitBreaker) onFailure(state State, now time.Time) *transition {
	cb.counts.onFailure()

	switch state {
	case StateClosed:
		if cb.readyToTrip(cb.counts) {
			return cb.setState(StateOpen, now)
		}
	case StateHalfOpen:
		return cb.setState(StateOpen, now)
	}
	return nil
}

// currentState 计算当前状态（处理统计窗口过期和OPEN超时），调用方持有锁
func (cb *CircuitBreaker) currentState(now time.Time) (State, uint64, *transition) {
	var change *transition
	switch cb.state {
	case StateClosed:
		if !cb.expiry.IsZero() && cb.expiry.Before(now) {
			cb.counts.Reset()
			cb.expiry = now.Add(cb.interval)
		}
	case StateOpen:
		if cb.expiry.Before(now) {
			change = cb.setState(StateHalfOpen, now)
		}
	}
	return cb.state, cb.generation, change
}

// setState 切换状态，返回待触发的回调（调用方持有锁）
func (cb *CircuitBreaker) setState(state State, now time.Time) *transition {
	if cb.state == state {
		return nil
	}

	prev := cb.state
	cb.state = state
	cb.generation++
	cb.counts.Reset()

	switch state {
	case StateClosed:
		if cb.interval > 0 {
			cb.expiry = now.Add(cb.interval)
		} else {
			cb.expiry = time.Time{}
		}
	case StateOpen:
		cb.expiry = now.Add(cb.timeout)
	case StateHalfOpen:
		cb.expiry = time.Time{}
	}

	if cb.onStateChange == nil {
		return nil
	}
	return &transition{fn: cb.onStateChange, name: cb.name, from: prev, to: state}
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	state, _, change := cb.currentState(time.Now())
	cb.mu.Unlock()

	change.fire()
	return state
}

// Counts 当前统计周期的计数
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

type transition struct {
	fn       func(name string, from State, to State)
	name     string
	from, to State
}

func (t *transition) fire() {
	if t != nil {
		t.fn(t.name, t.from, t.to)
	}
}
