// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 核心概念
//
// 1. **Trace（追踪）**：一个完整的请求链路，例如"添加图书"从HTTP入口到写库的全过程
// 2. **Span（跨度）**：一个操作单元，例如AddBookUseCase、生成slug、写入books表
// 3. **SpanContext**：TraceID标识整个请求链路，SpanID标识当前操作
//
// # 追踪示例
//
//	Trace: POST /api/v1/books/add（TraceID=abc123）
//	├─ Span1: AddBookUseCase（耗时35ms）
//	│  ├─ Span2: book.GenerateSlug（耗时3ms）
//	│  └─ Span3: books INSERT（耗时25ms）← 慢！
//	└─ Span4: 发布book.created事件（耗时2ms）
//
// # 使用示例
//
//	shutdown, err := tracing.InitTracer("bookshelf", "localhost:4317")
//	if err != nil {
//	    return err
//	}
//	defer shutdown(context.Background())
//
//	func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (resp *AddBookResponse, err error) {
//	    ctx, span := tracing.StartSpan(ctx, "application.book", "AddBook")
//	    defer func() { tracing.End(span, err) }()
//	    ...
//	}
//
// # 最佳实践
//
//  1. Span名称使用操作名（AddBook），动态值放在属性里（attribute.String("slug", slug)）
//  2. 不要把密码、Token写入属性
//  3. 程序退出时调用shutdown()刷新未发送的Span
//  4. 未调用InitTracer时全局Provider是no-op实现，StartSpan依然安全可用
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// InitTracer 初始化全局Tracer Provider
//
// 参数：
//   - serviceName: 服务名称（在Jaeger UI中显示）
//   - endpoint: OTLP gRPC端点（host:port，如localhost:4317）
//
// 返回的shutdown必须在程序退出前调用，否则可能丢失最后一批Span
func InitTracer(serviceName, endpoint string) (func(context.Context) error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// gRPC连接是惰性建立的，Collector未启动时这里不会失败
	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
	)
	if err != nil {
		return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		// 生产环境可以改为sdktrace.TraceIDRatioBased(0.01)
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		// BatchSpanProcessor批量发送Span
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}

	return shutdown, nil
}

// StartSpan 创建一个新的Span
//
// 必须使用返回的ctx调用下游函数，否则无法构建调用树
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// End 结束Span，err非nil时记录错误并标记失败
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ExtractTraceID 从Context提取TraceID（用于关联日志）
// 无有效Span时返回空字符串
func ExtractTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return ""
	}
	return span.SpanContext().SpanID().String()
}
