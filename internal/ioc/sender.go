package ioc

import (
	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"gitee.com/flycash/communication-platform/internal/service/provider/firebase"
	"gitee.com/flycash/communication-platform/internal/service/sender"
)

// InitSender 每个渠道的发送器外面依次套上 tracing 和 metrics。
// 邮件渠道没有发送器，派生时会被跳过
func InitSender(
	vendors *provider.Registry,
	builder *firebase.Builder,
	client httpx.Doer,
	acks repository.AcknowledgementRepository,
) *sender.Dispatcher {
	decorate := func(s sender.ChannelSender) sender.ChannelSender {
		return sender.NewMetricsSender(sender.NewTracingSender(s), nil)
	}
	return sender.NewDispatcher(map[domain.Channel]sender.ChannelSender{
		domain.ChannelSMS:             decorate(sender.NewSMSSender(vendors, client, acks)),
		domain.ChannelWhatsapp:        decorate(sender.NewWhatsappSender(vendors, client, acks)),
		domain.ChannelAppNotification: decorate(sender.NewPushSender(builder, client, acks)),
	})
}
