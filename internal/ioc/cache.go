package ioc

import (
	"context"
	"time"

	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache/local"
	"github.com/gotomicro/ego/core/econf"
	"golang.org/x/sync/errgroup"
)

const preloadTimeout = 30 * time.Second

func InitLocalCacheConfig() local.Config {
	cfg := local.Config{Size: 10000, RefreshInterval: 5 * time.Minute}
	if err := econf.UnmarshalKey("cache", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

func InitLanguageCache(repo repository.LanguageRepository, cfg local.Config) *local.LanguageCache {
	c, err := local.NewLanguageCache(repo, cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func InitMobileAppCache(repo repository.MobileAppRepository, cfg local.Config) *local.MobileAppCache {
	c, err := local.NewMobileAppCache(repo, cfg)
	if err != nil {
		panic(err)
	}
	return c
}

func InitTemplateCache(repo repository.TemplateRepository, cfg local.Config) *local.TemplateCache {
	c, err := local.NewTemplateCache(repo, cfg)
	if err != nil {
		panic(err)
	}
	return c
}

type refreshable interface {
	Preload(ctx context.Context) error
	StartRefresh(ctx context.Context, interval time.Duration)
}

// CacheRefreshTask 启动时全量加载一次，之后按固定间隔刷新
type CacheRefreshTask struct {
	caches   []refreshable
	interval time.Duration
}

func InitCacheRefreshTask(cfg local.Config, languages *local.LanguageCache,
	apps *local.MobileAppCache, templates *local.TemplateCache,
) *CacheRefreshTask {
	t := &CacheRefreshTask{
		caches:   []refreshable{languages, apps, templates},
		interval: cfg.RefreshInterval,
	}
	ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
	defer cancel()
	var eg errgroup.Group
	for _, c := range t.caches {
		eg.Go(func() error { return c.Preload(ctx) })
	}
	if err := eg.Wait(); err != nil {
		panic(err)
	}
	return t
}

func (t *CacheRefreshTask) Start(ctx context.Context) {
	if t.interval <= 0 {
		return
	}
	for _, c := range t.caches {
		c.StartRefresh(ctx, t.interval)
	}
}
