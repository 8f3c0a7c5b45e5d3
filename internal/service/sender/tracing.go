package sender

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingSender 为发送器添加链路追踪的装饰器
type TracingSender struct {
	sender ChannelSender
	tracer trace.Tracer
}

func NewTracingSender(sender ChannelSender) *TracingSender {
	return &TracingSender{
		sender: sender,
		tracer: otel.Tracer("communication-platform/sender"),
	}
}

func (t *TracingSender) Send(ctx context.Context, evt domain.DerivedEvent) error {
	ctx, span := t.tracer.Start(ctx, "ChannelSender.Send",
		trace.WithAttributes(
			attribute.String("event.referenceId", evt.ReferenceID),
			attribute.String("event.template", evt.Template.Name),
			attribute.String("event.channel", evt.Channel().String()),
			attribute.String("event.vendor", evt.Vendor.String()),
		))
	defer span.End()

	err := t.sender.Send(ctx, evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
