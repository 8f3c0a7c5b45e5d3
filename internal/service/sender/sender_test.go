package sender

import (
	"context"
	"errors"
	"testing"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	httpxmocks "gitee.com/flycash/communication-platform/internal/pkg/httpx/mocks"
	repomocks "gitee.com/flycash/communication-platform/internal/repository/mocks"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"gitee.com/flycash/communication-platform/internal/service/provider/firebase"
	vendormocks "gitee.com/flycash/communication-platform/internal/service/provider/mocks"
	sendermocks "gitee.com/flycash/communication-platform/internal/service/sender/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func smsEvent() domain.DerivedEvent {
	return domain.DerivedEvent{
		Content:      "Hi Ram",
		Template:     domain.Template{Name: "payment"},
		Attributes:   domain.SMSAttributes{MobileNumber: "919876543210"},
		Vendor:       domain.VendorA,
		ReferenceID:  "ref-1",
		CampaignName: "kharif",
	}
}

func TestVendorSender_Send(t *testing.T) {
	t.Parallel()
	req := domain.VendorRequest{URL: "https://a.example.com/sms", Body: []byte("x")}

	testCases := []struct {
		name    string
		evt     domain.DerivedEvent
		before  func(v *vendormocks.MockVendor, doer *httpxmocks.MockDoer, acks *repomocks.MockAcknowledgementRepository)
		wantErr error
	}{
		{
			name: "发送成功并记录",
			evt:  smsEvent(),
			before: func(v *vendormocks.MockVendor, doer *httpxmocks.MockDoer, acks *repomocks.MockAcknowledgementRepository) {
				v.EXPECT().BuildSMSRequest(gomock.Any()).Return(req, nil)
				doer.EXPECT().Do(gomock.Any(), req).Return(httpx.Response{StatusCode: 200, Body: []byte("ok")}, nil)
				v.EXPECT().ParseSendResponse([]byte("ok")).Return("ext-1", nil)
				acks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, a domain.Acknowledgement) (domain.Acknowledgement, error) {
						assert.Equal(t, "ext-1", a.ExternalID)
						assert.Equal(t, "ref-1", a.ReferenceID)
						assert.Equal(t, domain.VendorA, a.Vendor)
						assert.Equal(t, domain.ChannelSMS, a.Channel)
						assert.Equal(t, "919876543210", a.MobileNumber)
						assert.Equal(t, "payment", a.TemplateName)
						assert.Equal(t, domain.DeliveryStatusSubmitted, a.Status)
						return a, nil
					})
			},
		},
		{
			name: "记录重复不影响发送结果",
			evt:  smsEvent(),
			before: func(v *vendormocks.MockVendor, doer *httpxmocks.MockDoer, acks *repomocks.MockAcknowledgementRepository) {
				v.EXPECT().BuildSMSRequest(gomock.Any()).Return(req, nil)
				doer.EXPECT().Do(gomock.Any(), req).Return(httpx.Response{Body: []byte("ok")}, nil)
				v.EXPECT().ParseSendResponse(gomock.Any()).Return("ext-1", nil)
				acks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Acknowledgement{}, errs.ErrDuplicateKey)
			},
		},
		{
			name: "供应商请求失败",
			evt:  smsEvent(),
			before: func(v *vendormocks.MockVendor, doer *httpxmocks.MockDoer, _ *repomocks.MockAcknowledgementRepository) {
				v.EXPECT().BuildSMSRequest(gomock.Any()).Return(req, nil)
				doer.EXPECT().Do(gomock.Any(), req).Return(httpx.Response{}, errs.ErrVendorRequestFailed)
			},
			wantErr: errs.ErrVendorRequestFailed,
		},
		{
			name: "供应商响应异常",
			evt:  smsEvent(),
			before: func(v *vendormocks.MockVendor, doer *httpxmocks.MockDoer, _ *repomocks.MockAcknowledgementRepository) {
				v.EXPECT().BuildSMSRequest(gomock.Any()).Return(req, nil)
				doer.EXPECT().Do(gomock.Any(), req).Return(httpx.Response{Body: []byte("{}")}, nil)
				v.EXPECT().ParseSendResponse(gomock.Any()).Return("", errs.ErrVendorResponse)
			},
			wantErr: errs.ErrVendorResponse,
		},
		{
			name: "构造请求失败",
			evt:  smsEvent(),
			before: func(v *vendormocks.MockVendor, _ *httpxmocks.MockDoer, _ *repomocks.MockAcknowledgementRepository) {
				v.EXPECT().BuildSMSRequest(gomock.Any()).Return(domain.VendorRequest{}, errs.ErrMissingMobileNumber)
			},
			wantErr: errs.ErrMissingMobileNumber,
		},
		{
			name: "未配置的供应商",
			evt: func() domain.DerivedEvent {
				evt := smsEvent()
				evt.Vendor = domain.VendorB
				return evt
			}(),
			before:  func(*vendormocks.MockVendor, *httpxmocks.MockDoer, *repomocks.MockAcknowledgementRepository) {},
			wantErr: errs.ErrVendorUnsupported,
		},
		{
			name: "渠道不匹配",
			evt: func() domain.DerivedEvent {
				evt := smsEvent()
				evt.Attributes = domain.WhatsappAttributes{MobileNumber: "1"}
				return evt
			}(),
			before:  func(*vendormocks.MockVendor, *httpxmocks.MockDoer, *repomocks.MockAcknowledgementRepository) {},
			wantErr: errs.ErrChannelUnsupported,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			v := vendormocks.NewMockVendor(ctrl)
			v.EXPECT().Type().Return(domain.VendorA).AnyTimes()
			doer := httpxmocks.NewMockDoer(ctrl)
			acks := repomocks.NewMockAcknowledgementRepository(ctrl)
			tc.before(v, doer, acks)

			s := NewSMSSender(provider.NewRegistry(v), doer, acks)
			err := s.Send(context.Background(), tc.evt)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestWhatsappSender_Send(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	v := vendormocks.NewMockVendor(ctrl)
	v.EXPECT().Type().Return(domain.VendorB).AnyTimes()
	doer := httpxmocks.NewMockDoer(ctrl)
	acks := repomocks.NewMockAcknowledgementRepository(ctrl)

	v.EXPECT().BuildWhatsAppMessageRequest(gomock.Any()).Return(domain.VendorRequest{URL: "wa"}, nil)
	doer.EXPECT().Do(gomock.Any(), domain.VendorRequest{URL: "wa"}).Return(httpx.Response{Body: []byte("ok")}, nil)
	v.EXPECT().ParseSendResponse(gomock.Any()).Return("mid-1", nil)
	acks.EXPECT().Create(gomock.Any(), gomock.Any()).Return(domain.Acknowledgement{}, errors.New("mock db error"))

	s := NewWhatsappSender(provider.NewRegistry(v), doer, acks)
	err := s.Send(context.Background(), domain.DerivedEvent{
		Vendor:     domain.VendorB,
		Attributes: domain.WhatsappAttributes{MobileNumber: "919876543210"},
	})
	require.NoError(t, err)
}

func TestPushSender_Send(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	doer := httpxmocks.NewMockDoer(ctrl)
	acks := repomocks.NewMockAcknowledgementRepository(ctrl)

	doer.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, req domain.VendorRequest) (httpx.Response, error) {
		assert.Equal(t, "key=fcm-key", req.Headers.Get("Authorization"))
		return httpx.Response{Body: []byte(`{"success":1,"results":[{"message_id":"0:1"}]}`)}, nil
	})
	acks.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, a domain.Acknowledgement) (domain.Acknowledgement, error) {
		assert.Equal(t, domain.VendorFirebase, a.Vendor)
		assert.Equal(t, "0:1", a.ExternalID)
		return a, nil
	})

	s := NewPushSender(firebase.NewBuilder(firebase.Config{}), doer, acks)
	err := s.Send(context.Background(), domain.DerivedEvent{
		Content: "body",
		Attributes: domain.PushNotificationAttributes{
			FcmToken: "tok",
			App:      domain.MobileAppDetails{FcmAPIKey: "fcm-key"},
		},
	})
	require.NoError(t, err)

	err = s.Send(context.Background(), domain.DerivedEvent{Attributes: domain.PushNotificationAttributes{}})
	assert.ErrorIs(t, err, errs.ErrInvalidPushEvent)
}

func TestDispatcher_Send(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sms := sendermocks.NewMockChannelSender(ctrl)
	sms.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)

	d := NewDispatcher(map[domain.Channel]ChannelSender{domain.ChannelSMS: sms})
	assert.True(t, d.Supports(domain.ChannelSMS))
	assert.False(t, d.Supports(domain.ChannelEmail))
	require.NoError(t, d.Send(context.Background(), smsEvent()))

	err := d.Send(context.Background(), domain.DerivedEvent{Attributes: domain.EmailAttributes{Email: "a@b.c"}})
	assert.ErrorIs(t, err, errs.ErrChannelUnsupported)
}

func TestDecorators(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	inner := sendermocks.NewMockChannelSender(ctrl)
	inner.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil)
	inner.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errs.ErrVendorRequestFailed)

	reg := prometheus.NewRegistry()
	s := NewTracingSender(NewMetricsSender(inner, reg))
	require.NoError(t, s.Send(context.Background(), smsEvent()))
	assert.ErrorIs(t, s.Send(context.Background(), smsEvent()), errs.ErrVendorRequestFailed)

	// 重复注册时复用已有的指标
	again := NewMetricsSender(inner, reg)
	assert.Equal(t, float64(1), testutil.ToFloat64(again.sendStatusCounter.WithLabelValues("SMS", "VENDOR_A", statusSucceeded)))
	assert.Equal(t, float64(1), testutil.ToFloat64(again.sendStatusCounter.WithLabelValues("SMS", "VENDOR_A", statusFailed)))
}
