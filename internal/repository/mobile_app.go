package repository

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
	"github.com/ecodeclub/ekit/slice"
)

// MobileAppRepository 移动应用仓储，找不到时返回 errs.ErrMobileAppNotFound
type MobileAppRepository interface {
	FindByID(ctx context.Context, id int64) (domain.MobileAppDetails, error)
	FindByAfsAppID(ctx context.Context, afsAppID int16) (domain.MobileAppDetails, error)
	FindByAppKey(ctx context.Context, key domain.AppKey) (domain.MobileAppDetails, error)
	FindAll(ctx context.Context) ([]domain.MobileAppDetails, error)
}

type mobileAppRepository struct {
	dao dao.MobileAppDAO
}

func NewMobileAppRepository(d dao.MobileAppDAO) MobileAppRepository {
	return &mobileAppRepository{dao: d}
}

func (r *mobileAppRepository) FindByID(ctx context.Context, id int64) (domain.MobileAppDetails, error) {
	m, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.MobileAppDetails{}, err
	}
	return r.toDomain(m), nil
}

func (r *mobileAppRepository) FindByAfsAppID(ctx context.Context, afsAppID int16) (domain.MobileAppDetails, error) {
	m, err := r.dao.FindByAfsAppID(ctx, afsAppID)
	if err != nil {
		return domain.MobileAppDetails{}, err
	}
	return r.toDomain(m), nil
}

func (r *mobileAppRepository) FindByAppKey(ctx context.Context, key domain.AppKey) (domain.MobileAppDetails, error) {
	m, err := r.dao.FindByAppKey(ctx, key.AppID, string(key.AppType))
	if err != nil {
		return domain.MobileAppDetails{}, err
	}
	return r.toDomain(m), nil
}

func (r *mobileAppRepository) FindAll(ctx context.Context) ([]domain.MobileAppDetails, error) {
	ms, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Map(ms, func(_ int, src dao.MobileAppDetails) domain.MobileAppDetails {
		return r.toDomain(src)
	}), nil
}

func (r *mobileAppRepository) toDomain(m dao.MobileAppDetails) domain.MobileAppDetails {
	return domain.MobileAppDetails{
		ID:        m.ID,
		AppID:     m.AppID,
		AppType:   domain.AppType(m.AppType),
		AfsAppID:  m.AfsAppID,
		FcmAPIKey: m.FcmAPIKey,
	}
}
