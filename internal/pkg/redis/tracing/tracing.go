package tracing

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "communication-platform/redis"

// Hook 实现了 redis.Hook 接口，每条命令、每次管道执行和建立连接各记录一个 span
type Hook struct {
	tracer trace.Tracer
}

// NewTracingHook provider 为 nil 时使用全局的 TracerProvider
func NewTracingHook(provider trace.TracerProvider) *Hook {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &Hook{tracer: provider.Tracer(instrumentationName)}
}

// WithTracing 给客户端加上 tracing hook
func WithTracing(rdb *redis.Client) *redis.Client {
	rdb.AddHook(NewTracingHook(nil))
	return rdb
}

func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "redis"),
				attribute.String("db.operation", cmd.Name()),
			))
		defer span.End()
		err := next(ctx, cmd)
		record(span, err)
		return err
	}
}

func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", "redis"),
				attribute.Int("db.redis.num_cmd", len(cmds)),
			))
		defer span.End()
		err := next(ctx, cmds)
		if err == nil {
			for _, cmd := range cmds {
				if cmd.Err() != nil && !errors.Is(cmd.Err(), redis.Nil) {
					err = cmd.Err()
					break
				}
			}
		}
		record(span, err)
		return err
	}
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		ctx, span := h.tracer.Start(ctx, "redis.dial",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(attribute.String("net.peer.addr", addr)))
		defer span.End()
		conn, err := next(ctx, network, addr)
		record(span, err)
		return conn, err
	}
}

// record redis.Nil 不算失败
func record(span trace.Span, err error) {
	if err == nil || errors.Is(err, redis.Nil) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
