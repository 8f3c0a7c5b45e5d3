package ioc

import (
	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
	"gitee.com/flycash/communication-platform/internal/service/provider/loadbalancer"
	"gitee.com/flycash/communication-platform/internal/service/sender"
	"gitee.com/flycash/communication-platform/internal/service/template"
	"github.com/gotomicro/ego/core/econf"
	"github.com/sony/sonyflake"
)

func InitTemplateResolver(templates cache.TemplateCache, languages cache.LanguageCache) *template.Resolver {
	defaultLanguage := econf.GetString("language.default")
	return template.NewResolver(templates, languages, defaultLanguage)
}

func InitPipeline(
	actors repository.ActorRepository,
	languages cache.LanguageCache,
	apps cache.MobileAppCache,
	resolver *template.Resolver,
	lb *loadbalancer.LoadBalancer,
	dispatcher *sender.Dispatcher,
	idGen *sonyflake.Sonyflake,
) *derivation.Pipeline {
	var cfg derivation.Config
	if err := econf.UnmarshalKey("derivation", &cfg); err != nil {
		panic(err)
	}
	var actorTypeApps map[domain.ActorType][]int64
	if err := econf.UnmarshalKey("push.actorTypeApps", &actorTypeApps); err != nil {
		panic(err)
	}
	if len(actorTypeApps) > 0 {
		cfg.ActorTypeApps = actorTypeApps
	}
	return derivation.NewPipeline(actors, languages, apps, resolver, lb, dispatcher, idGen, cfg, nil)
}
