package ioc

import (
	"gitee.com/flycash/communication-platform/internal/pkg/httpx"
	"gitee.com/flycash/communication-platform/internal/service/provider"
	"gitee.com/flycash/communication-platform/internal/service/provider/firebase"
	"gitee.com/flycash/communication-platform/internal/service/provider/loadbalancer"
	"gitee.com/flycash/communication-platform/internal/service/provider/vendora"
	"gitee.com/flycash/communication-platform/internal/service/provider/vendorb"
	"github.com/gotomicro/ego/core/econf"
)

func InitVendorRegistry() *provider.Registry {
	var cfgA vendora.Config
	if err := econf.UnmarshalKey("vendors.a", &cfgA); err != nil {
		panic(err)
	}
	var cfgB vendorb.Config
	if err := econf.UnmarshalKey("vendors.b", &cfgB); err != nil {
		panic(err)
	}
	return provider.NewRegistry(
		vendora.NewVendor(cfgA, nil),
		vendorb.NewVendor(cfgB),
	)
}

func InitFirebaseBuilder() *firebase.Builder {
	var cfg firebase.Config
	if err := econf.UnmarshalKey("vendors.firebase", &cfg); err != nil {
		panic(err)
	}
	return firebase.NewBuilder(cfg)
}

// InitLoadBalancer 权重在启动时读取一次，之后不再变化
func InitLoadBalancer() *loadbalancer.LoadBalancer {
	var weights loadbalancer.Weights
	if err := econf.UnmarshalKey("vendors.weights", &weights); err != nil {
		panic(err)
	}
	return loadbalancer.NewLoadBalancer(weights)
}

func InitHTTPClient() *httpx.Client {
	var cfg httpx.Config
	if err := econf.UnmarshalKey("vendors.http", &cfg); err != nil {
		panic(err)
	}
	return httpx.NewClient(cfg)
}
