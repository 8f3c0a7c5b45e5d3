package metrics

import (
	"context"
	"errors"
	"net"
	"time"

	"gitee.com/flycash/communication-platform/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Hook 实现了 redis.Hook 接口，为所有 Redis 操作添加指标收集
type Hook struct {
	commandCounter   *prometheus.CounterVec
	commandDuration  *prometheus.SummaryVec
	pipelineCounter  *prometheus.CounterVec
	pipelineDuration prometheus.Summary
	dialCounter      *prometheus.CounterVec
}

// NewMetricsHook registerer 为 nil 时注册到默认的 registry
func NewMetricsHook(registerer prometheus.Registerer) *Hook {
	objectives := map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001}
	return &Hook{
		commandCounter: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redis_commands_total",
				Help: "Redis 命令执行次数",
			},
			[]string{"command", "status"},
		)),
		commandDuration: metrics.Register(registerer, prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Name:       "redis_command_duration_seconds",
				Help:       "Redis 命令执行耗时",
				Objectives: objectives,
			},
			[]string{"command"},
		)),
		pipelineCounter: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redis_pipeline_total",
				Help: "Redis 管道执行次数",
			},
			[]string{"status"},
		)),
		pipelineDuration: metrics.Register(registerer, prometheus.NewSummary(
			prometheus.SummaryOpts{
				Name:       "redis_pipeline_duration_seconds",
				Help:       "Redis 管道执行耗时",
				Objectives: objectives,
			},
		)),
		dialCounter: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "redis_connections_total",
				Help: "Redis 建立连接次数",
			},
			[]string{"status"},
		)),
	}
}

// ProcessHook redis.Nil 不算失败
func (h *Hook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.commandDuration.WithLabelValues(cmd.Name()).Observe(time.Since(start).Seconds())
		h.commandCounter.WithLabelValues(cmd.Name(), status(err)).Inc()
		return err
	}
}

func (h *Hook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		if len(cmds) == 0 {
			return next(ctx, cmds)
		}
		start := time.Now()
		err := next(ctx, cmds)
		h.pipelineDuration.Observe(time.Since(start).Seconds())
		st := status(err)
		for _, cmd := range cmds {
			if status(cmd.Err()) == statusError {
				st = statusError
				break
			}
		}
		h.pipelineCounter.WithLabelValues(st).Inc()
		return err
	}
}

func (h *Hook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		h.dialCounter.WithLabelValues(status(err)).Inc()
		return conn, err
	}
}

func status(err error) string {
	if err != nil && !errors.Is(err, redis.Nil) {
		return statusError
	}
	return statusSuccess
}
