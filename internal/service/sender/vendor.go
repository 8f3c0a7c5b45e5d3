package sender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"github.com/gotomicro/ego/core/elog"
)

// VendorSender 短信和 WhatsApp 的发送器，发送成功后记录一条待对账的发送记录
type VendorSender struct {
	channel domain.Channel
	vendors *provider.Registry
	client  httpx.Doer
	acks    repository.AcknowledgementRepository
	logger  *elog.Component
}

func NewSMSSender(vendors *provider.Registry, client httpx.Doer, acks repository.AcknowledgementRepository) *VendorSender {
	return newVendorSender(domain.ChannelSMS, vendors, client, acks)
}

func NewWhatsappSender(vendors *provider.Registry, client httpx.Doer, acks repository.AcknowledgementRepository) *VendorSender {
	return newVendorSender(domain.ChannelWhatsapp, vendors, client, acks)
}

func newVendorSender(ch domain.Channel, vendors *provider.Registry, client httpx.Doer, acks repository.AcknowledgementRepository) *VendorSender {
	return &VendorSender{
		channel: ch,
		vendors: vendors,
		client:  client,
		acks:    acks,
		logger:  elog.DefaultLogger.With(elog.String("channel", ch.String())),
	}
}

func (s *VendorSender) Send(ctx context.Context, evt domain.DerivedEvent) error {
	if evt.Channel() != s.channel {
		return fmt.Errorf("%w: 发送器 %s 收到渠道 %s", errs.ErrChannelUnsupported, s.channel, evt.Channel())
	}
	v, err := s.vendors.Get(evt.Vendor)
	if err != nil {
		return err
	}
	var req domain.VendorRequest
	switch s.channel {
	case domain.ChannelSMS:
		req, err = v.BuildSMSRequest(evt)
	default:
		req, err = v.BuildWhatsAppMessageRequest(evt)
	}
	if err != nil {
		return fmt.Errorf("构造 %s 请求失败: %w", evt.Vendor, err)
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return err
	}
	externalID, err := v.ParseSendResponse(resp.Body)
	if err != nil {
		return err
	}
	s.record(ctx, evt, externalID)
	return nil
}

// record 消息已经发出，记录失败只打日志
func (s *VendorSender) record(ctx context.Context, evt domain.DerivedEvent, externalID string) {
	now := time.Now().UnixMilli()
	_, err := s.acks.Create(ctx, domain.Acknowledgement{
		ReferenceID:  evt.ReferenceID,
		ExternalID:   externalID,
		Vendor:       evt.Vendor,
		Channel:      s.channel,
		MobileNumber: evt.MobileNumber(),
		TemplateName: evt.Template.Name,
		CampaignName: evt.CampaignName,
		Status:       domain.DeliveryStatusSubmitted,
		Ctime:        now,
		Utime:        now,
	})
	if errors.Is(err, errs.ErrDuplicateKey) {
		s.logger.Warn("发送记录已存在", elog.String("externalID", externalID), elog.String("referenceID", evt.ReferenceID))
		return
	}
	if err != nil {
		s.logger.Error("保存发送记录失败",
			elog.FieldErr(err),
			elog.String("externalID", externalID),
			elog.String("referenceID", evt.ReferenceID))
	}
}
