package sender

import (
	"context"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// MetricsSender 为发送器添加指标收集的装饰器
type MetricsSender struct {
	sender              ChannelSender
	sendDurationSummary *prometheus.SummaryVec
	sendStatusCounter   *prometheus.CounterVec
}

// NewMetricsSender registerer 为 nil 时注册到 prometheus.DefaultRegisterer，
// 同名指标已经注册过时复用已有的
func NewMetricsSender(sender ChannelSender, registerer prometheus.Registerer) *MetricsSender {
	summary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "channel_send_duration_seconds",
			Help:       "渠道发送耗时统计（秒）",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.95: 0.005, 0.99: 0.001},
			MaxAge:     time.Minute * 5,
		},
		[]string{"channel", "vendor", "status"},
	)
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "channel_send_total",
			Help: "渠道发送状态统计",
		},
		[]string{"channel", "vendor", "status"},
	)
	return &MetricsSender{
		sender:              sender,
		sendDurationSummary: metrics.Register(registerer, summary),
		sendStatusCounter:   metrics.Register(registerer, counter),
	}
}

func (m *MetricsSender) Send(ctx context.Context, evt domain.DerivedEvent) error {
	startTime := time.Now()
	err := m.sender.Send(ctx, evt)
	status := statusSucceeded
	if err != nil {
		status = statusFailed
	}
	labels := []string{evt.Channel().String(), evt.Vendor.String(), status}
	m.sendStatusCounter.WithLabelValues(labels...).Inc()
	m.sendDurationSummary.WithLabelValues(labels...).Observe(time.Since(startTime).Seconds())
	return err
}
