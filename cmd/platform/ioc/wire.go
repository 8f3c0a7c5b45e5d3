//go:build wireinject

package ioc

import (
	"gitee.com/flycash/communication-platform/internal/api/web"
	"gitee.com/flycash/communication-platform/internal/ioc"
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/repository/cache"
	"gitee.com/flycash/communication-platform/internal/repository/cache/local"
	cacheredis "gitee.com/flycash/communication-platform/internal/repository/cache/redis"
	"gitee.com/flycash/communication-platform/internal/repository/dao"
	actorsvc "gitee.com/flycash/communication-platform/internal/service/actor"
	"gitee.com/flycash/communication-platform/internal/service/callback"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
	"gitee.com/flycash/communication-platform/internal/service/provider/loadbalancer"
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

var (
	BaseSet = wire.NewSet(
		ioc.InitDB,
		ioc.InitRedisClient,
		ioc.InitIDGenerator,
		ioc.InitZipkinTracer,
		ioc.InitHTTPClient,
		wire.Bind(new(redis.Cmdable), new(*redis.Client)),
		wire.Bind(new(httpx.Doer), new(*httpx.Client)),
	)
	metadataSet = wire.NewSet(
		dao.NewLanguageDAO,
		dao.NewMobileAppDAO,
		dao.NewTemplateDAO,
		repository.NewLanguageRepository,
		repository.NewMobileAppRepository,
		repository.NewTemplateRepository,
		ioc.InitLocalCacheConfig,
		ioc.InitLanguageCache,
		ioc.InitMobileAppCache,
		ioc.InitTemplateCache,
		ioc.InitCacheRefreshTask,
		wire.Bind(new(cache.LanguageCache), new(*local.LanguageCache)),
		wire.Bind(new(cache.MobileAppCache), new(*local.MobileAppCache)),
		wire.Bind(new(cache.TemplateCache), new(*local.TemplateCache)),
	)
	actorSet = wire.NewSet(
		dao.NewActorDAO,
		cacheredis.NewActorDetailsCache,
		ioc.InitActorRepository,
		actorsvc.NewService,
		wire.Bind(new(cache.ActorDetailsCache), new(*cacheredis.ActorDetailsCache)),
	)
	acknowledgementSet = wire.NewSet(
		dao.NewAcknowledgementDAO,
		repository.NewAcknowledgementRepository,
		ioc.InitCallbackService,
	)
	vendorSet = wire.NewSet(
		ioc.InitVendorRegistry,
		ioc.InitFirebaseBuilder,
		ioc.InitLoadBalancer,
		ioc.InitSender,
		wire.Bind(new(derivation.VendorPicker), new(*loadbalancer.LoadBalancer)),
	)
	derivationSet = wire.NewSet(
		ioc.InitTemplateResolver,
		ioc.InitPipeline,
	)
)

func InitApp() *ioc.App {
	wire.Build(
		BaseSet,
		metadataSet,
		actorSet,
		acknowledgementSet,
		vendorSet,
		derivationSet,

		ioc.InitCommunicationEventConsumer,
		ioc.InitActorEventConsumer,
		ioc.InitTasks,

		web.NewHandler,
		wire.Bind(new(web.Processor), new(*derivation.Pipeline)),
		wire.Bind(new(web.Reconciler), new(*callback.Service)),
		ioc.InitGinServer,
		wire.Struct(new(ioc.App), "*"),
	)
	return new(ioc.App)
}
