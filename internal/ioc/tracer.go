package ioc

import (
	"context"

	"github.com/gotomicro/ego/core/econf"
	"github.com/gotomicro/ego/core/elog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// InitZipkinTracer 设置全局的 TracerProvider，sender 的 tracing 装饰器从全局获取 tracer
func InitZipkinTracer() *trace.TracerProvider {
	type Config struct {
		Endpoint    string `yaml:"endpoint"`
		ServiceName string `yaml:"serviceName"`
	}
	cfg := Config{ServiceName: "communication-platform"}
	err := econf.UnmarshalKey("trace.zipkin", &cfg)
	if err != nil {
		panic(err)
	}
	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))
	if cfg.Endpoint == "" {
		// 没有配置 zipkin 时只保留本地 span
		tp := trace.NewTracerProvider(trace.WithResource(res))
		otel.SetTracerProvider(tp)
		return tp
	}
	exporter, err := zipkin.New(cfg.Endpoint)
	if err != nil {
		panic(err)
	}
	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(tp)
	return tp
}

func ShutdownTracer(tp *trace.TracerProvider) {
	if err := tp.Shutdown(context.Background()); err != nil {
		elog.Error("Shutdown zipkinTracer", elog.FieldErr(err))
	}
}
