package sender

import (
	"context"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/service/provider/firebase"
	"github.com/gotomicro/ego/core/elog"
)

// PushSender App 推送
type PushSender struct {
	builder *firebase.Builder
	client  httpx.Doer
	acks    repository.AcknowledgementRepository
	logger  *elog.Component
}

func NewPushSender(builder *firebase.Builder, client httpx.Doer, acks repository.AcknowledgementRepository) *PushSender {
	return &PushSender{
		builder: builder,
		client:  client,
		acks:    acks,
		logger:  elog.DefaultLogger.With(elog.String("channel", domain.ChannelAppNotification.String())),
	}
}

func (s *PushSender) Send(ctx context.Context, evt domain.DerivedEvent) error {
	req, err := s.builder.BuildPushRequest(evt)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return err
	}
	messageID, err := s.builder.ParseSendResponse(resp.Body)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	_, err = s.acks.Create(ctx, domain.Acknowledgement{
		ReferenceID:  evt.ReferenceID,
		ExternalID:   messageID,
		Vendor:       domain.VendorFirebase,
		Channel:      domain.ChannelAppNotification,
		TemplateName: evt.Template.Name,
		CampaignName: evt.CampaignName,
		Status:       domain.DeliveryStatusSent,
		Ctime:        now,
		Utime:        now,
	})
	if err != nil {
		s.logger.Error("保存推送记录失败", elog.FieldErr(err), elog.String("referenceID", evt.ReferenceID))
	}
	return nil
}
