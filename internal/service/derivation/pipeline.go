// Package derivation 把上游的通知事件逐个渠道派生成可以直接发送的事件
package derivation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"gitee.com/flycash/communication-platform/internal/service/template"
	"github.com/gotomicro/ego/core/elog"
	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/sonyflake"
	"golang.org/x/sync/semaphore"
)

const defaultMaxInFlight = 100

// Pipeline 单次线性处理，没有状态机。并发安全，每个事件独立处理
type Pipeline struct {
	actors    repository.ActorRepository
	languages cache.LanguageCache
	apps      cache.MobileAppCache
	resolver  *template.Resolver
	picker    VendorPicker
	sender    Sender
	idGen     *sonyflake.Sonyflake
	cfg       Config
	sem       *semaphore.Weighted
	metrics   *pipelineMetrics
	now       func() time.Time
	logger    *elog.Component
}

func NewPipeline(
	actors repository.ActorRepository,
	languages cache.LanguageCache,
	apps cache.MobileAppCache,
	resolver *template.Resolver,
	picker VendorPicker,
	sender Sender,
	idGen *sonyflake.Sonyflake,
	cfg Config,
	registerer prometheus.Registerer,
) *Pipeline {
	if cfg.MaxInFlight <= 0 {
		cfg.MaxInFlight = defaultMaxInFlight
	}
	return &Pipeline{
		actors:    actors,
		languages: languages,
		apps:      apps,
		resolver:  resolver,
		picker:    picker,
		sender:    sender,
		idGen:     idGen,
		cfg:       cfg,
		sem:       semaphore.NewWeighted(cfg.MaxInFlight),
		metrics:   newPipelineMetrics(registerer),
		now:       time.Now,
		logger:    elog.DefaultLogger,
	}
}

// Process 任何情况下都不会 panic 或者把错误抛给调用方，结果统一通过 Result 返回
func (p *Pipeline) Process(ctx context.Context, evt domain.CommunicationEvent) (res Result) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Result{Err: err}
	}
	p.metrics.inFlight.Inc()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("处理通知事件 panic", append(p.eventFields(evt), elog.Any("panic", r))...)
			res = Result{Err: fmt.Errorf("%s: %v", reasonPanic, r)}
			p.metrics.events.WithLabelValues(resultFailure, reasonPanic).Inc()
		} else {
			p.metrics.observe(res)
		}
		p.metrics.inFlight.Dec()
		p.sem.Release(1)
	}()
	return p.process(ctx, evt)
}

// ReportDeserializationFailure 消息无法解析时由消费者上报
func (p *Pipeline) ReportDeserializationFailure(err error) {
	p.metrics.events.WithLabelValues(resultFailure, reasonDeserialization).Inc()
	p.logger.Error("通知事件反序列化失败", elog.FieldErr(err))
}

// recipient 解析出来的接收方信息
type recipient struct {
	mobileNumber string
	email        string
	primary      *domain.Language
	secondary    *domain.Language
	push         *domain.PushNotificationAttributes
	// pushErr 推送渠道无法发送的原因
	pushErr error
}

func (p *Pipeline) process(ctx context.Context, evt domain.CommunicationEvent) Result {
	if err := p.validate(evt); err != nil {
		return p.fail(evt, err)
	}

	rcpt, err := p.resolveRecipient(ctx, evt)
	if err != nil {
		return p.fail(evt, err)
	}

	val, lang, err := p.resolver.Resolve(ctx, evt.TemplateName, rcpt.primary, rcpt.secondary)
	if err != nil {
		return p.fail(evt, err)
	}
	if rcpt.primary != nil && rcpt.primary.ID != lang.ID {
		p.logger.Info("模板使用了回退语言",
			elog.String("requested", rcpt.primary.Code),
			elog.String("actual", lang.Code),
			elog.String("template", evt.TemplateName))
	}

	placeholders := evt.PlaceholderMap()
	rendered, err := p.resolver.Render(val, placeholders, evt.ContentTitle)
	if err != nil {
		return p.fail(evt, err)
	}

	referenceID := evt.ReferenceID
	if referenceID == "" {
		referenceID, err = p.nextReferenceID()
		if err != nil {
			return p.fail(evt, err)
		}
	}
	base := domain.DerivedEvent{
		Event:             evt,
		Content:           rendered.Content,
		Title:             rendered.Title,
		Language:          lang,
		Template:          val.Template,
		Placeholders:      placeholders,
		CampaignName:      evt.CampaignName,
		ReferenceID:       referenceID,
		ParentReferenceID: evt.ParentReferenceID,
	}
	return p.dispatch(ctx, evt, base, rcpt)
}

func (p *Pipeline) validate(evt domain.CommunicationEvent) error {
	if evt.TemplateName == "" {
		return errs.ErrMissingTemplateName
	}
	if !evt.HasActorIdentity() {
		return errs.ErrMissingActorIdentity
	}
	if evt.Media != nil && !evt.Media.Complete() {
		return errs.ErrIncompleteMediaData
	}
	if evt.HasChannel(domain.ChannelAppNotification) && evt.ActorDetails.HasContact() {
		d := evt.ActorDetails
		if d.FcmToken == "" || d.AppID == "" || d.AppType == "" {
			return errs.ErrInvalidPushEvent
		}
	}
	if evt.Expired(p.now()) {
		return fmt.Errorf("%w: expiry=%d", errs.ErrEventExpired, evt.Expiry)
	}
	if len(evt.Channels) == 0 {
		return errs.ErrNoChannel
	}
	return nil
}

func (p *Pipeline) resolveRecipient(ctx context.Context, evt domain.CommunicationEvent) (recipient, error) {
	var rcpt recipient
	inline := evt.ActorDetails
	var languageID int16
	if inline.HasContact() {
		rcpt.mobileNumber = inline.MobileNumber
		rcpt.email = inline.Email
	} else {
		details, err := p.actors.FindCommDetails(ctx, evt.ActorKey())
		if err != nil {
			return recipient{}, err
		}
		if !details.Active {
			return recipient{}, fmt.Errorf("%w: 联系方式已停用 %v", errs.ErrActorDetailsNotFound, evt.ActorKey())
		}
		rcpt.mobileNumber = details.MobileNumber
		languageID = details.LanguageID
	}

	if evt.HasChannel(domain.ChannelAppNotification) {
		push, err := p.resolvePush(ctx, evt)
		if err != nil {
			if len(evt.Channels) == 1 {
				return recipient{}, err
			}
			p.logger.Warn("推送渠道无法发送，继续处理其他渠道", append(p.eventFields(evt), elog.FieldErr(err))...)
			rcpt.pushErr = err
		} else {
			rcpt.push = &push
		}
	}

	var err error
	switch {
	case inline != nil && inline.LanguageCode != "":
		rcpt.primary, err = p.languageByCode(ctx, inline.LanguageCode)
	case languageID != 0:
		rcpt.primary, err = p.languageByID(ctx, languageID)
	}
	if err != nil {
		return recipient{}, err
	}
	if inline != nil && inline.SecondaryLanguageCode != "" {
		rcpt.secondary, err = p.languageByCode(ctx, inline.SecondaryLanguageCode)
		if err != nil {
			return recipient{}, err
		}
	}
	return rcpt, nil
}

func (p *Pipeline) resolvePush(ctx context.Context, evt domain.CommunicationEvent) (domain.PushNotificationAttributes, error) {
	if d := evt.ActorDetails; d.HasApp() {
		app, ok, err := p.apps.GetByAppKey(ctx, domain.AppKey{AppID: d.AppID, AppType: d.AppType})
		if err != nil {
			return domain.PushNotificationAttributes{}, err
		}
		if !ok {
			return domain.PushNotificationAttributes{}, fmt.Errorf("%w: app=%s/%s", errs.ErrAppTokenOrDetailsNotFound, d.AppID, d.AppType)
		}
		return domain.PushNotificationAttributes{FcmToken: d.FcmToken, App: app}, nil
	}

	key := evt.ActorKey()
	if !key.IsValid() {
		return domain.PushNotificationAttributes{}, fmt.Errorf("%w: 缺少用户标识", errs.ErrAppTokenOrDetailsNotFound)
	}
	token, err := p.actors.FindActiveAppToken(ctx, key, p.cfg.ActorTypeApps[key.ActorType])
	if err != nil {
		return domain.PushNotificationAttributes{}, err
	}
	app, ok, err := p.apps.GetByID(ctx, token.MobileAppDetailsID)
	if err != nil {
		return domain.PushNotificationAttributes{}, err
	}
	if !ok {
		return domain.PushNotificationAttributes{}, fmt.Errorf("%w: mobileAppDetailsId=%d", errs.ErrAppTokenOrDetailsNotFound, token.MobileAppDetailsID)
	}
	return domain.PushNotificationAttributes{FcmToken: token.FcmToken, App: app}, nil
}

// languageByCode 找不到语言只记录日志，交给模板回退处理
func (p *Pipeline) languageByCode(ctx context.Context, code string) (*domain.Language, error) {
	l, ok, err := p.languages.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.logger.Warn("语言不存在", elog.String("code", code))
		return nil, nil
	}
	return &l, nil
}

func (p *Pipeline) languageByID(ctx context.Context, id int16) (*domain.Language, error) {
	l, ok, err := p.languages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		p.logger.Warn("语言不存在", elog.Any("id", id))
		return nil, nil
	}
	return &l, nil
}

// dispatch 各渠道独立发送，互不回滚
func (p *Pipeline) dispatch(ctx context.Context, evt domain.CommunicationEvent, base domain.DerivedEvent, rcpt recipient) Result {
	res := Result{Channels: make(map[domain.Channel]error, len(evt.Channels))}
	var merr *multierror.Error
	for _, ch := range evt.Channels {
		if _, ok := res.Channels[ch]; ok {
			continue
		}
		err := p.dispatchChannel(ctx, evt, base, rcpt, ch)
		res.Channels[ch] = err
		if err == nil {
			res.Success = true
			continue
		}
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", ch, err))
		p.logger.Warn("渠道发送失败", append(p.eventFields(evt), elog.String("channel", ch.String()), elog.FieldErr(err))...)
	}
	switch {
	case res.Success:
		res.Err = merr.ErrorOrNil()
	case merr == nil:
		res.Err = errs.ErrNoChannelSent
	default:
		res.Err = fmt.Errorf("%w: %w", errs.ErrNoChannelSent, merr)
	}
	return res
}

func (p *Pipeline) dispatchChannel(ctx context.Context, evt domain.CommunicationEvent, base domain.DerivedEvent, rcpt recipient, ch domain.Channel) error {
	derived := base
	switch ch {
	case domain.ChannelSMS:
		if rcpt.mobileNumber == "" {
			return errs.ErrMissingMobileNumber
		}
		derived.Attributes = domain.SMSAttributes{MobileNumber: rcpt.mobileNumber}
	case domain.ChannelWhatsapp:
		if rcpt.mobileNumber == "" {
			return errs.ErrMissingMobileNumber
		}
		derived.Attributes = domain.WhatsappAttributes{MobileNumber: rcpt.mobileNumber, Media: evt.Media}
	case domain.ChannelAppNotification:
		if rcpt.push == nil {
			if rcpt.pushErr != nil {
				return rcpt.pushErr
			}
			return errs.ErrAppTokenOrDetailsNotFound
		}
		derived.Attributes = *rcpt.push
	case domain.ChannelEmail:
		if rcpt.email == "" {
			return fmt.Errorf("%w: 缺少邮箱", errs.ErrInvalidParameter)
		}
		derived.Attributes = domain.EmailAttributes{Email: rcpt.email, ContentType: base.Template.ContentType}
	default:
		p.logger.Warn("不支持的渠道，跳过", append(p.eventFields(evt), elog.String("channel", ch.String()))...)
		return fmt.Errorf("%w: %s", errs.ErrChannelUnsupported, ch)
	}

	if ch.RequiresVendor() {
		derived.Vendor = evt.Vendor
		if derived.Vendor == "" {
			v, err := p.picker.PickVendor(ch)
			if err != nil {
				return err
			}
			derived.Vendor = v
		}
	} else if ch == domain.ChannelAppNotification {
		derived.Vendor = domain.VendorFirebase
	}

	if !p.sender.Supports(ch) {
		p.logger.Warn("渠道没有配置发送器，跳过", append(p.eventFields(evt), elog.String("channel", ch.String()))...)
		return fmt.Errorf("%w: %s", errs.ErrChannelUnsupported, ch)
	}
	return p.sender.Send(ctx, derived)
}

func (p *Pipeline) nextReferenceID() (string, error) {
	id, err := p.idGen.NextID()
	if err != nil {
		return "", fmt.Errorf("生成 referenceId 失败: %w", err)
	}
	return strconv.FormatUint(id, 10), nil
}

func (p *Pipeline) fail(evt domain.CommunicationEvent, err error) Result {
	fields := append(p.eventFields(evt), elog.FieldErr(err))
	if isValidation(err) {
		p.logger.Warn("通知事件校验失败，丢弃", fields...)
	} else {
		p.logger.Error("处理通知事件失败", fields...)
	}
	return Result{Err: err}
}

func isValidation(err error) bool {
	for _, target := range []error{
		errs.ErrMissingTemplateName,
		errs.ErrMissingActorIdentity,
		errs.ErrIncompleteMediaData,
		errs.ErrInvalidPushEvent,
		errs.ErrEventExpired,
		errs.ErrNoChannel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (p *Pipeline) eventFields(evt domain.CommunicationEvent) []elog.Field {
	return []elog.Field{
		elog.String("referenceID", evt.ReferenceID),
		elog.String("template", evt.TemplateName),
		elog.Int64("actorID", evt.ReceiverActorID),
		elog.String("actorType", string(evt.ReceiverActorType)),
	}
}
