package derivation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository/cache/local"
	repomocks "gitee.com/flycash/communication-platform/internal/repository/mocks"
	"gitee.com/flycash/communication-platform/internal/service/provider/loadbalancer"
	"gitee.com/flycash/communication-platform/internal/service/template"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/sonyflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	hindi   = domain.Language{ID: 1, Code: "hi-in", IsUnicode: true}
	english = domain.Language{ID: 2, Code: "en-in"}
	farmer  = domain.ActorKey{ActorID: 5, ActorType: domain.ActorTypeFarmer}
	app     = domain.MobileAppDetails{ID: 10, AppID: "com.farmer", AppType: domain.AppTypeAndroid, AfsAppID: 3, FcmAPIKey: "fcm-key"}
	now     = time.Unix(1_700_000_000, 0)
)

type languageCache struct{}

func (languageCache) GetByCode(_ context.Context, code string) (domain.Language, bool, error) {
	for _, l := range []domain.Language{hindi, english} {
		if l.Code == code {
			return l, true, nil
		}
	}
	return domain.Language{}, false, nil
}

func (languageCache) GetByID(_ context.Context, id int16) (domain.Language, bool, error) {
	for _, l := range []domain.Language{hindi, english} {
		if l.ID == id {
			return l, true, nil
		}
	}
	return domain.Language{}, false, nil
}

type appCache struct{}

func (appCache) GetByID(_ context.Context, id int64) (domain.MobileAppDetails, bool, error) {
	return app, id == app.ID, nil
}

func (appCache) GetByAfsAppID(_ context.Context, afsAppID int16) (domain.MobileAppDetails, bool, error) {
	return app, afsAppID == app.AfsAppID, nil
}

func (appCache) GetByAppKey(_ context.Context, key domain.AppKey) (domain.MobileAppDetails, bool, error) {
	return app, key == app.Key(), nil
}

type templateCache map[domain.TemplateKey]domain.Template

func (m templateCache) Get(_ context.Context, key domain.TemplateKey) (domain.TemplateCacheValue, bool, error) {
	t, ok := m[key]
	if !ok {
		return domain.TemplateCacheValue{}, false, nil
	}
	val, err := local.Compile(t)
	return val, err == nil, err
}

// recordingSender 记录收到的派生事件
type recordingSender struct {
	mu        sync.Mutex
	supported map[domain.Channel]bool
	failures  map[domain.Channel]error
	sent      []domain.DerivedEvent
	onSend    func(evt domain.DerivedEvent)
}

func newRecordingSender() *recordingSender {
	return &recordingSender{supported: map[domain.Channel]bool{
		domain.ChannelSMS:             true,
		domain.ChannelWhatsapp:        true,
		domain.ChannelAppNotification: true,
	}}
}

func (s *recordingSender) Supports(ch domain.Channel) bool {
	return s.supported[ch]
}

func (s *recordingSender) Send(_ context.Context, evt domain.DerivedEvent) error {
	if s.onSend != nil {
		s.onSend(evt)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures[evt.Channel()]; err != nil {
		return err
	}
	s.sent = append(s.sent, evt)
	return nil
}

func (s *recordingSender) channels() []domain.Channel {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]domain.Channel, 0, len(s.sent))
	for _, evt := range s.sent {
		res = append(res, evt.Channel())
	}
	return res
}

func newIDGen(t *testing.T) *sonyflake.Sonyflake {
	t.Helper()
	sf := sonyflake.NewSonyflake(sonyflake.Settings{
		MachineID: func() (uint16, error) { return 1, nil },
	})
	require.NotNil(t, sf)
	return sf
}

func defaultTemplates() templateCache {
	return templateCache{
		{Name: "payment", LanguageID: hindi.ID}: {
			Name: "payment", LanguageID: hindi.ID,
			Content:    "Namaste {{name}}, {{amount}} mila",
			Attributes: map[string]string{"0": "name", "1": "amount"},
		},
		{Name: "payment_titled", LanguageID: english.ID}: {
			Name: "payment_titled", LanguageID: english.ID,
			Content: "Hi {{name}}", Title: "Payment for {{name}}",
		},
	}
}

func newPipeline(t *testing.T, actors *repomocks.MockActorRepository, sender *recordingSender, cfg Config) *Pipeline {
	t.Helper()
	resolver := template.NewResolver(defaultTemplates(), languageCache{}, "hi-in")
	lb := loadbalancer.NewLoadBalancer(loadbalancer.Weights{
		domain.ChannelSMS:      {domain.VendorA: 1},
		domain.ChannelWhatsapp: {domain.VendorB: 1},
	})
	if cfg.ActorTypeApps == nil {
		cfg.ActorTypeApps = map[domain.ActorType][]int64{domain.ActorTypeFarmer: {app.ID}}
	}
	p := NewPipeline(actors, languageCache{}, appCache{}, resolver, lb, sender, newIDGen(t), cfg, prometheus.NewRegistry())
	p.now = func() time.Time { return now }
	return p
}

func smsEvent() domain.CommunicationEvent {
	return domain.CommunicationEvent{
		ReceiverActorID:   farmer.ActorID,
		ReceiverActorType: farmer.ActorType,
		TemplateName:      "payment",
		Channels:          []domain.Channel{domain.ChannelSMS},
		Placeholders:      []domain.Placeholder{{Key: "name", Value: "Ram"}, {Key: "amount", Value: "100"}},
		ReferenceID:       "ref-1",
		CampaignName:      "kharif",
	}
}

func TestPipeline_Validation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name    string
		evt     func() domain.CommunicationEvent
		wantErr error
	}{
		{
			name: "缺少模板名称",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.TemplateName = ""
				return evt
			},
			wantErr: errs.ErrMissingTemplateName,
		},
		{
			name: "缺少接收方",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.ReceiverActorID = 0
				evt.ActorDetails = &domain.ActorDetails{LanguageCode: "hi-in"}
				return evt
			},
			wantErr: errs.ErrMissingActorIdentity,
		},
		{
			name: "文档附件缺少文件名",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.Media = &domain.Media{URL: "https://cdn/a.pdf", AccessType: "PUBLIC", MediaType: domain.MediaTypeDocument}
				return evt
			},
			wantErr: errs.ErrIncompleteMediaData,
		},
		{
			name: "推送事件缺少应用信息",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.Channels = []domain.Channel{domain.ChannelAppNotification}
				evt.ActorDetails = &domain.ActorDetails{FcmToken: "tok", AppID: "com.farmer"}
				return evt
			},
			wantErr: errs.ErrInvalidPushEvent,
		},
		{
			name: "过期一秒",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.Expiry = now.Unix() - 1
				return evt
			},
			wantErr: errs.ErrEventExpired,
		},
		{
			name: "没有渠道",
			evt: func() domain.CommunicationEvent {
				evt := smsEvent()
				evt.Channels = nil
				return evt
			},
			wantErr: errs.ErrNoChannel,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			sender := newRecordingSender()
			p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})
			res := p.Process(context.Background(), tc.evt())
			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, tc.wantErr)
			assert.Empty(t, sender.channels())
		})
	}
}

func TestPipeline_ExpiryBoundary(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	actors := repomocks.NewMockActorRepository(ctrl)
	actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{
		ActorID: farmer.ActorID, ActorType: farmer.ActorType, MobileNumber: "9876543210", LanguageID: hindi.ID, Active: true,
	}, nil)
	sender := newRecordingSender()
	p := newPipeline(t, actors, sender, Config{})

	evt := smsEvent()
	evt.Expiry = now.Unix()
	res := p.Process(context.Background(), evt)
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, []domain.Channel{domain.ChannelSMS}, sender.channels())
}

func TestPipeline_ActorNotFound(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	actors := repomocks.NewMockActorRepository(ctrl)
	actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{}, errs.ErrActorDetailsNotFound)
	sender := newRecordingSender()
	p := newPipeline(t, actors, sender, Config{})

	res := p.Process(context.Background(), smsEvent())
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, errs.ErrActorDetailsNotFound)
	assert.Empty(t, sender.channels())
	assert.Equal(t, float64(1), testutil.ToFloat64(p.metrics.events.WithLabelValues(resultFailure, "actor_details_not_found")))
}

func TestPipeline_SMS(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	actors := repomocks.NewMockActorRepository(ctrl)
	// 用户偏好英语，但 payment 只有印地语版本
	actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{
		ActorID: farmer.ActorID, ActorType: farmer.ActorType, MobileNumber: "9876543210", LanguageID: english.ID, Active: true,
	}, nil)
	sender := newRecordingSender()
	p := newPipeline(t, actors, sender, Config{})

	res := p.Process(context.Background(), smsEvent())
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, map[domain.Channel]error{domain.ChannelSMS: nil}, res.Channels)

	require.Len(t, sender.sent, 1)
	got := sender.sent[0]
	assert.Equal(t, "Namaste Ram, 100 mila", got.Content)
	assert.Equal(t, hindi, got.Language)
	assert.Equal(t, domain.SMSAttributes{MobileNumber: "9876543210"}, got.Attributes)
	assert.Equal(t, domain.VendorA, got.Vendor)
	assert.Equal(t, "ref-1", got.ReferenceID)
	assert.Equal(t, "kharif", got.CampaignName)
	assert.Equal(t, []string{"Ram", "100"}, got.OrderedPlaceholderValues())
}

func TestPipeline_InactiveActor(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	actors := repomocks.NewMockActorRepository(ctrl)
	actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{MobileNumber: "9876543210"}, nil)
	p := newPipeline(t, actors, newRecordingSender(), Config{})

	res := p.Process(context.Background(), smsEvent())
	assert.ErrorIs(t, res.Err, errs.ErrActorDetailsNotFound)
}

func TestPipeline_PushPartialFailure(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name         string
		channels     []domain.Channel
		wantSuccess  bool
		wantErr      error
		wantChannels []domain.Channel
	}{
		{
			name:         "推送失败但短信成功",
			channels:     []domain.Channel{domain.ChannelAppNotification, domain.ChannelSMS},
			wantSuccess:  true,
			wantErr:      errs.ErrAppTokenOrDetailsNotFound,
			wantChannels: []domain.Channel{domain.ChannelSMS},
		},
		{
			name:         "只有推送渠道",
			channels:     []domain.Channel{domain.ChannelAppNotification},
			wantSuccess:  false,
			wantErr:      errs.ErrAppTokenOrDetailsNotFound,
			wantChannels: []domain.Channel{},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			actors := repomocks.NewMockActorRepository(ctrl)
			actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{
				MobileNumber: "9876543210", LanguageID: hindi.ID, Active: true,
			}, nil)
			actors.EXPECT().FindActiveAppToken(gomock.Any(), farmer, []int64{app.ID}).
				Return(domain.ActorAppToken{}, errs.ErrAppTokenOrDetailsNotFound)
			sender := newRecordingSender()
			p := newPipeline(t, actors, sender, Config{})

			evt := smsEvent()
			evt.Channels = tc.channels
			res := p.Process(context.Background(), evt)
			assert.Equal(t, tc.wantSuccess, res.Success)
			assert.ErrorIs(t, res.Err, tc.wantErr)
			assert.ElementsMatch(t, tc.wantChannels, sender.channels())
		})
	}
}

func TestPipeline_PushFromToken(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	actors := repomocks.NewMockActorRepository(ctrl)
	actors.EXPECT().FindCommDetails(gomock.Any(), farmer).Return(domain.ActorCommunicationDetails{
		LanguageID: english.ID, Active: true,
	}, nil)
	actors.EXPECT().FindActiveAppToken(gomock.Any(), farmer, []int64{app.ID}).Return(domain.ActorAppToken{
		ActorID: farmer.ActorID, ActorType: farmer.ActorType, MobileAppDetailsID: app.ID, FcmToken: "tok", Active: true,
	}, nil)
	sender := newRecordingSender()
	p := newPipeline(t, actors, sender, Config{})

	evt := smsEvent()
	evt.TemplateName = "payment_titled"
	evt.Channels = []domain.Channel{domain.ChannelAppNotification}
	res := p.Process(context.Background(), evt)
	require.NoError(t, res.Err)
	require.Len(t, sender.sent, 1)
	got := sender.sent[0]
	assert.Equal(t, domain.PushNotificationAttributes{FcmToken: "tok", App: app}, got.Attributes)
	assert.Equal(t, domain.VendorFirebase, got.Vendor)
	assert.Equal(t, "Payment for Ram", got.Title)
}

func TestPipeline_InlineDetails(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	media := &domain.Media{URL: "https://cdn/a.jpg", AccessType: "PUBLIC", MediaType: domain.MediaTypeImage}
	res := p.Process(context.Background(), domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{
			MobileNumber: "9876543210",
			FcmToken:     "tok",
			AppID:        app.AppID,
			AppType:      app.AppType,
			LanguageCode: "en-in",
		},
		TemplateName: "payment_titled",
		Channels:     []domain.Channel{domain.ChannelWhatsapp, domain.ChannelAppNotification, domain.ChannelWhatsapp},
		Media:        media,
		Vendor:       domain.VendorA,
		Placeholders: []domain.Placeholder{{Key: "name", Value: "Sita"}},
		ContentTitle: "ignored",
	})
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	require.Len(t, sender.sent, 2)

	wa := sender.sent[0]
	assert.Equal(t, domain.WhatsappAttributes{MobileNumber: "9876543210", Media: media}, wa.Attributes)
	// 显式指定的供应商不经过负载均衡
	assert.Equal(t, domain.VendorA, wa.Vendor)
	assert.Equal(t, english, wa.Language)
	assert.NotEmpty(t, wa.ReferenceID)

	push := sender.sent[1]
	assert.Equal(t, domain.PushNotificationAttributes{FcmToken: "tok", App: app}, push.Attributes)
	assert.Equal(t, wa.ReferenceID, push.ReferenceID)
}

func TestPipeline_LiteralTitleAndSecondaryLanguage(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	res := p.Process(context.Background(), domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{
			MobileNumber:          "9876543210",
			LanguageCode:          "fr-fr",
			SecondaryLanguageCode: "hi-in",
		},
		TemplateName: "payment",
		Channels:     []domain.Channel{domain.ChannelSMS},
		ContentTitle: "Payment",
	})
	require.NoError(t, res.Err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Payment", sender.sent[0].Title)
	assert.Equal(t, hindi, sender.sent[0].Language)
}

func TestPipeline_UnsupportedChannels(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	evt := domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210", Email: "ram@example.com"},
		TemplateName: "payment",
		Channels:     []domain.Channel{domain.ChannelEmail, "FAX", domain.ChannelSMS},
	}
	res := p.Process(context.Background(), evt)
	assert.True(t, res.Success)
	assert.ErrorIs(t, res.Channels[domain.ChannelEmail], errs.ErrChannelUnsupported)
	assert.ErrorIs(t, res.Channels["FAX"], errs.ErrChannelUnsupported)
	assert.NoError(t, res.Channels[domain.ChannelSMS])

	evt.Channels = []domain.Channel{domain.ChannelEmail}
	res = p.Process(context.Background(), evt)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, errs.ErrNoChannelSent)
	assert.ErrorIs(t, res.Err, errs.ErrChannelUnsupported)
}

func TestPipeline_NoVendorConfigured(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})
	p.picker = loadbalancer.NewLoadBalancer(nil)

	res := p.Process(context.Background(), domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210"},
		TemplateName: "payment",
		Channels:     []domain.Channel{domain.ChannelSMS},
	})
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, errs.ErrNoVendorConfigured)
	assert.Empty(t, sender.channels())
}

func TestPipeline_SenderFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	sender.failures = map[domain.Channel]error{domain.ChannelSMS: errs.ErrVendorRequestFailed}
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	res := p.Process(context.Background(), domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210"},
		TemplateName: "payment",
		Channels:     []domain.Channel{domain.ChannelSMS, domain.ChannelWhatsapp},
	})
	assert.True(t, res.Success)
	assert.ErrorIs(t, res.Channels[domain.ChannelSMS], errs.ErrVendorRequestFailed)
	assert.NoError(t, res.Channels[domain.ChannelWhatsapp])
	assert.ErrorIs(t, res.Err, errs.ErrVendorRequestFailed)
}

func TestPipeline_TemplateNotFound(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	res := p.Process(context.Background(), domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210"},
		TemplateName: "missing",
		Channels:     []domain.Channel{domain.ChannelSMS},
	})
	assert.ErrorIs(t, res.Err, errs.ErrTemplateNotFound)
	assert.Empty(t, sender.channels())
}

func TestPipeline_RecoverPanic(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	sender.onSend = func(domain.DerivedEvent) { panic("boom") }
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{})

	var res Result
	assert.NotPanics(t, func() {
		res = p.Process(context.Background(), domain.CommunicationEvent{
			ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210"},
			TemplateName: "payment",
			Channels:     []domain.Channel{domain.ChannelSMS},
		})
	})
	assert.False(t, res.Success)
	assert.Error(t, res.Err)
	assert.Equal(t, float64(0), testutil.ToFloat64(p.metrics.inFlight))
}

func TestPipeline_MaxInFlight(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	sender := newRecordingSender()
	entered := make(chan struct{})
	release := make(chan struct{})
	sender.onSend = func(domain.DerivedEvent) {
		entered <- struct{}{}
		<-release
	}
	p := newPipeline(t, repomocks.NewMockActorRepository(ctrl), sender, Config{MaxInFlight: 1})
	evt := domain.CommunicationEvent{
		ActorDetails: &domain.ActorDetails{MobileNumber: "9876543210"},
		TemplateName: "payment",
		Channels:     []domain.Channel{domain.ChannelSMS},
	}

	done := make(chan Result)
	go func() {
		done <- p.Process(context.Background(), evt)
	}()
	<-entered

	// 达到上限后新的事件一直阻塞，直到超时
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := p.Process(ctx, evt)
	assert.True(t, errors.Is(res.Err, context.DeadlineExceeded))

	close(release)
	assert.True(t, (<-done).Success)
}
