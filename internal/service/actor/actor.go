// Package actor 处理用户侧的推送 token 和联系方式变更事件
package actor

import (
	"context"
	"errors"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
)

type Service struct {
	repo      repository.ActorRepository
	apps      cache.MobileAppCache
	languages cache.LanguageCache
	logger    *elog.Component
}

// NewService repo 需要传入带缓存的实现，保存联系方式时才会清理缓存
func NewService(repo repository.ActorRepository, apps cache.MobileAppCache, languages cache.LanguageCache) *Service {
	return &Service{
		repo:      repo,
		apps:      apps,
		languages: languages,
		logger:    elog.DefaultLogger,
	}
}

// HandleAppToken 事件里的 appId 是外部系统的应用ID，需要先换成本地的应用
func (s *Service) HandleAppToken(ctx context.Context, evt domain.ActorAppTokenEvent) error {
	key := domain.ActorKey{ActorID: evt.ActorID, ActorType: evt.ActorType}
	if !key.IsValid() {
		return fmt.Errorf("%w: 缺少用户标识", errs.ErrInvalidParameter)
	}
	if evt.Active && evt.FcmToken == "" {
		return fmt.Errorf("%w: 缺少 fcmToken", errs.ErrInvalidParameter)
	}
	app, ok, err := s.apps.GetByAfsAppID(ctx, evt.AfsAppID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: afsAppId=%d", errs.ErrMobileAppNotFound, evt.AfsAppID)
	}
	err = s.repo.SaveAppToken(ctx, domain.ActorAppToken{
		ActorID:            evt.ActorID,
		ActorType:          evt.ActorType,
		MobileAppDetailsID: app.ID,
		FcmToken:           evt.FcmToken,
		Active:             evt.Active,
	})
	if err != nil {
		return err
	}
	s.logger.Info("保存用户推送token",
		elog.Int64("actorID", evt.ActorID),
		elog.String("actorType", string(evt.ActorType)),
		elog.String("action", string(evt.Action)),
		elog.Int64("mobileAppDetailsID", app.ID))
	return nil
}

// HandleCommDetails CREATE 必须带手机号；UPDATE 没有带的字段保留原值
func (s *Service) HandleCommDetails(ctx context.Context, evt domain.ActorCommDetailsEvent) error {
	key := domain.ActorKey{ActorID: evt.ActorID, ActorType: evt.ActorType}
	if !key.IsValid() {
		return fmt.Errorf("%w: 缺少用户标识", errs.ErrInvalidParameter)
	}
	details := domain.ActorCommunicationDetails{
		ActorID:      evt.ActorID,
		ActorType:    evt.ActorType,
		MobileNumber: evt.MobileNumber,
		Active:       evt.Active,
	}
	switch evt.Action {
	case domain.ActorEventCreate:
		if evt.MobileNumber == "" {
			return fmt.Errorf("%w: 创建联系方式必须带手机号", errs.ErrInvalidParameter)
		}
	case domain.ActorEventUpdate:
		old, err := s.repo.FindCommDetails(ctx, key)
		switch {
		case err == nil:
			if details.MobileNumber == "" {
				details.MobileNumber = old.MobileNumber
			}
			details.LanguageID = old.LanguageID
		case errors.Is(err, errs.ErrActorDetailsNotFound):
			if details.MobileNumber == "" {
				return fmt.Errorf("%w: 联系方式不存在且没有手机号", errs.ErrInvalidParameter)
			}
		default:
			return err
		}
	default:
		return fmt.Errorf("%w: 未知的动作 %s", errs.ErrInvalidParameter, evt.Action)
	}

	if evt.LanguageCode != "" {
		lang, ok, err := s.languages.GetByCode(ctx, domain.NormalizeLanguageCode(evt.LanguageCode))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: code=%s", errs.ErrLanguageNotFound, evt.LanguageCode)
		}
		details.LanguageID = lang.ID
	}
	return s.repo.SaveCommDetails(ctx, details)
}
