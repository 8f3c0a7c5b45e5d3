package ioc

import (
	"gitee.com/flycash/communication-platform/internal/pkg/redis/metrics"
	"gitee.com/flycash/communication-platform/internal/pkg/redis/tracing"
	"github.com/gotomicro/ego/core/econf"
	"github.com/redis/go-redis/v9"
)

func InitRedisClient() *redis.Client {
	type Config struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	}
	var cfg Config
	err := econf.UnmarshalKey("redis", &cfg)
	if err != nil {
		panic(err)
	}
	cmd := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	cmd.AddHook(metrics.NewMetricsHook(nil))
	cmd = tracing.WithTracing(cmd)
	return cmd
}
