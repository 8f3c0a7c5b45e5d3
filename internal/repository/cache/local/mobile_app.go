package local

import (
	"context"
	"errors"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
	"gitee.com/flycash/communication-platform/internal/pkg/loadingcache"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"golang.org/x/sync/errgroup"
)

var _ cache.MobileAppCache = (*MobileAppCache)(nil)

// MobileAppCache 按 id、AFS 应用ID、(appId, appType) 三个维度缓存
type MobileAppCache struct {
	repo       repository.MobileAppRepository
	byID       *loadingcache.Cache[int64, domain.MobileAppDetails]
	byAfsAppID *loadingcache.Cache[int16, domain.MobileAppDetails]
	byAppKey   *loadingcache.Cache[domain.AppKey, domain.MobileAppDetails]
}

func NewMobileAppCache(repo repository.MobileAppRepository, cfg Config) (*MobileAppCache, error) {
	c := &MobileAppCache{repo: repo}
	var err error
	c.byID, err = loadingcache.New[int64, domain.MobileAppDetails]("mobile_app_by_id",
		func(ctx context.Context, id int64) (domain.MobileAppDetails, bool, error) {
			return c.load(repo.FindByID(ctx, id))
		},
		loadingcache.WithSize[int64, domain.MobileAppDetails](cfg.Size),
		loadingcache.WithBulkLoader(func(ctx context.Context) (map[int64]domain.MobileAppDetails, error) {
			apps, err1 := repo.FindAll(ctx)
			return indexBy(apps, func(m domain.MobileAppDetails) int64 { return m.ID }), err1
		}))
	if err != nil {
		return nil, err
	}
	c.byAfsAppID, err = loadingcache.New[int16, domain.MobileAppDetails]("mobile_app_by_afs_app_id",
		func(ctx context.Context, afsAppID int16) (domain.MobileAppDetails, bool, error) {
			return c.load(repo.FindByAfsAppID(ctx, afsAppID))
		},
		loadingcache.WithSize[int16, domain.MobileAppDetails](cfg.Size),
		loadingcache.WithBulkLoader(func(ctx context.Context) (map[int16]domain.MobileAppDetails, error) {
			apps, err1 := repo.FindAll(ctx)
			return indexBy(apps, func(m domain.MobileAppDetails) int16 { return m.AfsAppID }), err1
		}))
	if err != nil {
		return nil, err
	}
	c.byAppKey, err = loadingcache.New[domain.AppKey, domain.MobileAppDetails]("mobile_app_by_app_key",
		func(ctx context.Context, key domain.AppKey) (domain.MobileAppDetails, bool, error) {
			return c.load(repo.FindByAppKey(ctx, key))
		},
		loadingcache.WithSize[domain.AppKey, domain.MobileAppDetails](cfg.Size),
		loadingcache.WithBulkLoader(func(ctx context.Context) (map[domain.AppKey]domain.MobileAppDetails, error) {
			apps, err1 := repo.FindAll(ctx)
			return indexBy(apps, domain.MobileAppDetails.Key), err1
		}))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *MobileAppCache) GetByID(ctx context.Context, id int64) (domain.MobileAppDetails, bool, error) {
	return c.byID.Get(ctx, id)
}

func (c *MobileAppCache) GetByAfsAppID(ctx context.Context, afsAppID int16) (domain.MobileAppDetails, bool, error) {
	return c.byAfsAppID.Get(ctx, afsAppID)
}

func (c *MobileAppCache) GetByAppKey(ctx context.Context, key domain.AppKey) (domain.MobileAppDetails, bool, error) {
	return c.byAppKey.Get(ctx, key)
}

func (c *MobileAppCache) Preload(ctx context.Context) error {
	var eg errgroup.Group
	eg.Go(func() error { return c.byID.Preload(ctx) })
	eg.Go(func() error { return c.byAfsAppID.Preload(ctx) })
	eg.Go(func() error { return c.byAppKey.Preload(ctx) })
	return eg.Wait()
}

func (c *MobileAppCache) StartRefresh(ctx context.Context, interval time.Duration) {
	go c.byID.StartRefresh(ctx, interval)
	go c.byAfsAppID.StartRefresh(ctx, interval)
	go c.byAppKey.StartRefresh(ctx, interval)
}

func (c *MobileAppCache) load(m domain.MobileAppDetails, err error) (domain.MobileAppDetails, bool, error) {
	if errors.Is(err, errs.ErrMobileAppNotFound) {
		return domain.MobileAppDetails{}, false, nil
	}
	if err != nil {
		return domain.MobileAppDetails{}, false, err
	}
	return m, true, nil
}
