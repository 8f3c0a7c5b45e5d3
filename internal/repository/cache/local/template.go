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
	"github.com/cbroglie/mustache"
	"github.com/gotomicro/ego/core/elog"
)

var _ cache.TemplateCache = (*TemplateCache)(nil)

// TemplateCache 按 (name, languageId) 缓存编译好的模板，编译失败的模板不进入缓存
type TemplateCache struct {
	repo    repository.TemplateRepository
	entries *loadingcache.Cache[domain.TemplateKey, domain.TemplateCacheValue]
	logger  *elog.Component
}

func NewTemplateCache(repo repository.TemplateRepository, cfg Config) (*TemplateCache, error) {
	c := &TemplateCache{
		repo:   repo,
		logger: elog.DefaultLogger,
	}
	entries, err := loadingcache.New[domain.TemplateKey, domain.TemplateCacheValue]("template", c.load,
		loadingcache.WithSize[domain.TemplateKey, domain.TemplateCacheValue](cfg.Size),
		loadingcache.WithBulkLoader(c.loadAll))
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

func (c *TemplateCache) Get(ctx context.Context, key domain.TemplateKey) (domain.TemplateCacheValue, bool, error) {
	return c.entries.Get(ctx, key)
}

func (c *TemplateCache) Preload(ctx context.Context) error {
	return c.entries.Preload(ctx)
}

func (c *TemplateCache) StartRefresh(ctx context.Context, interval time.Duration) {
	go c.entries.StartRefresh(ctx, interval)
}

func (c *TemplateCache) load(ctx context.Context, key domain.TemplateKey) (domain.TemplateCacheValue, bool, error) {
	t, err := c.repo.FindActive(ctx, key)
	if errors.Is(err, errs.ErrTemplateNotFound) {
		return domain.TemplateCacheValue{}, false, nil
	}
	if err != nil {
		return domain.TemplateCacheValue{}, false, err
	}
	val, err := Compile(t)
	if err != nil {
		c.logger.Error("编译模板失败",
			elog.FieldErr(err),
			elog.String("name", t.Name),
			elog.Any("languageID", t.LanguageID))
		return domain.TemplateCacheValue{}, false, nil
	}
	return val, true, nil
}

func (c *TemplateCache) loadAll(ctx context.Context) (map[domain.TemplateKey]domain.TemplateCacheValue, error) {
	ts, err := c.repo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	res := make(map[domain.TemplateKey]domain.TemplateCacheValue, len(ts))
	for _, t := range ts {
		val, err1 := Compile(t)
		if err1 != nil {
			c.logger.Error("编译模板失败", elog.FieldErr(err1), elog.String("name", t.Name))
			continue
		}
		res[t.Key()] = val
	}
	return res, nil
}

// Compile 编译模板正文和标题
func Compile(t domain.Template) (domain.TemplateCacheValue, error) {
	body, err := mustache.ParseString(t.Content)
	if err != nil {
		return domain.TemplateCacheValue{}, err
	}
	val := domain.TemplateCacheValue{Template: t, Body: body}
	if t.Title != "" {
		val.Title, err = mustache.ParseString(t.Title)
		if err != nil {
			return domain.TemplateCacheValue{}, err
		}
	}
	return val, nil
}
