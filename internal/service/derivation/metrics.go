package derivation

import (
	"errors"

	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"

	reasonNone            = "none"
	reasonDeserialization = "deserialization"
	reasonPanic           = "panic"
	reasonInternal        = "internal"
)

var reasons = []struct {
	err    error
	reason string
}{
	{errs.ErrMissingTemplateName, "missing_template_name"},
	{errs.ErrMissingActorIdentity, "missing_actor_identity"},
	{errs.ErrIncompleteMediaData, "incomplete_media_data"},
	{errs.ErrInvalidPushEvent, "invalid_push_event"},
	{errs.ErrEventExpired, "event_expired"},
	{errs.ErrNoChannel, "no_channel"},
	{errs.ErrActorDetailsNotFound, "actor_details_not_found"},
	{errs.ErrAppTokenOrDetailsNotFound, "app_token_or_details_not_found"},
	{errs.ErrTemplateNotFound, "template_not_found"},
	{errs.ErrNoVendorConfigured, "no_vendor_configured"},
	{errs.ErrNoChannelSent, "no_channel_sent"},
	{errs.ErrDeserialization, reasonDeserialization},
}

func reasonOf(err error) string {
	if err == nil {
		return reasonNone
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return reasonInternal
}

type pipelineMetrics struct {
	events   *prometheus.CounterVec
	inFlight prometheus.Gauge
}

func newPipelineMetrics(registerer prometheus.Registerer) *pipelineMetrics {
	return &pipelineMetrics{
		events: metrics.Register(registerer, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "communication_event_total",
				Help: "通知事件处理结果统计",
			},
			[]string{"result", "reason"},
		)),
		inFlight: metrics.Register(registerer, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "communication_event_in_flight",
				Help: "正在处理的通知事件数",
			},
		)),
	}
}

func (m *pipelineMetrics) observe(res Result) {
	if res.Success {
		m.events.WithLabelValues(resultSuccess, reasonNone).Inc()
		return
	}
	m.events.WithLabelValues(resultFailure, reasonOf(res.Err)).Inc()
}
