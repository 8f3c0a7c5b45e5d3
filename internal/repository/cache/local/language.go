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

var _ cache.LanguageCache = (*LanguageCache)(nil)

// LanguageCache 按 code 和 id 两个维度缓存语言
type LanguageCache struct {
	repo   repository.LanguageRepository
	byCode *loadingcache.Cache[string, domain.Language]
	byID   *loadingcache.Cache[int16, domain.Language]
}

func NewLanguageCache(repo repository.LanguageRepository, cfg Config) (*LanguageCache, error) {
	c := &LanguageCache{repo: repo}
	var err error
	c.byCode, err = loadingcache.New[string, domain.Language]("language_by_code", c.loadByCode,
		loadingcache.WithSize[string, domain.Language](cfg.Size),
		loadingcache.WithBulkLoader(func(ctx context.Context) (map[string]domain.Language, error) {
			ls, err := repo.FindAll(ctx)
			return indexBy(ls, func(l domain.Language) string { return l.Code }), err
		}))
	if err != nil {
		return nil, err
	}
	c.byID, err = loadingcache.New[int16, domain.Language]("language_by_id", c.loadByID,
		loadingcache.WithSize[int16, domain.Language](cfg.Size),
		loadingcache.WithBulkLoader(func(ctx context.Context) (map[int16]domain.Language, error) {
			ls, err := repo.FindAll(ctx)
			return indexBy(ls, func(l domain.Language) int16 { return l.ID }), err
		}))
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *LanguageCache) GetByCode(ctx context.Context, code string) (domain.Language, bool, error) {
	return c.byCode.Get(ctx, domain.NormalizeLanguageCode(code))
}

func (c *LanguageCache) GetByID(ctx context.Context, id int16) (domain.Language, bool, error) {
	return c.byID.Get(ctx, id)
}

func (c *LanguageCache) Preload(ctx context.Context) error {
	var eg errgroup.Group
	eg.Go(func() error { return c.byCode.Preload(ctx) })
	eg.Go(func() error { return c.byID.Preload(ctx) })
	return eg.Wait()
}

func (c *LanguageCache) StartRefresh(ctx context.Context, interval time.Duration) {
	go c.byCode.StartRefresh(ctx, interval)
	go c.byID.StartRefresh(ctx, interval)
}

func (c *LanguageCache) loadByCode(ctx context.Context, code string) (domain.Language, bool, error) {
	l, err := c.repo.FindByCode(ctx, code)
	if errors.Is(err, errs.ErrLanguageNotFound) {
		return domain.Language{}, false, nil
	}
	if err != nil {
		return domain.Language{}, false, err
	}
	c.byID.Put(l.ID, l)
	return l, true, nil
}

func (c *LanguageCache) loadByID(ctx context.Context, id int16) (domain.Language, bool, error) {
	l, err := c.repo.FindByID(ctx, id)
	if errors.Is(err, errs.ErrLanguageNotFound) {
		return domain.Language{}, false, nil
	}
	if err != nil {
		return domain.Language{}, false, err
	}
	c.byCode.Put(l.Code, l)
	return l, true, nil
}
