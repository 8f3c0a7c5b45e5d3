package repository

import (
	"context"
	"errors"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"github.com/gotomicro/ego/core/elog"
)

// CachedActorRepository 联系方式走 redis 旁路缓存，推送 token 直接查库
type CachedActorRepository struct {
	ActorRepository
	cache  cache.ActorDetailsCache
	logger *elog.Component
}

func NewCachedActorRepository(repo ActorRepository, c cache.ActorDetailsCache) *CachedActorRepository {
	return &CachedActorRepository{
		ActorRepository: repo,
		cache:           c,
		logger:          elog.DefaultLogger,
	}
}

func (r *CachedActorRepository) FindCommDetails(ctx context.Context, key domain.ActorKey) (domain.ActorCommunicationDetails, error) {
	details, err := r.cache.Get(ctx, key)
	if err == nil {
		return details, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		// redis 出问题不影响发送，直接回源
		r.logger.Warn("读取用户联系方式缓存失败", elog.FieldErr(err))
	}
	details, err = r.ActorRepository.FindCommDetails(ctx, key)
	if err != nil {
		return domain.ActorCommunicationDetails{}, err
	}
	if err = r.cache.Set(ctx, details); err != nil {
		r.logger.Warn("回写用户联系方式缓存失败", elog.FieldErr(err))
	}
	return details, nil
}

// SaveCommDetails 先写库再删缓存
func (r *CachedActorRepository) SaveCommDetails(ctx context.Context, details domain.ActorCommunicationDetails) error {
	if err := r.ActorRepository.SaveCommDetails(ctx, details); err != nil {
		return err
	}
	key := domain.ActorKey{ActorID: details.ActorID, ActorType: details.ActorType}
	if err := r.cache.Del(ctx, key); err != nil {
		r.logger.Warn("删除用户联系方式缓存失败", elog.FieldErr(err), elog.Int64("actorID", key.ActorID))
	}
	return nil
}
