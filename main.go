package main

import (
	"context"
	"essay-review/biz/adaptor"
	"essay-review/biz/infrastructure/config"
	"essay-review/biz/infrastructure/util/log"
	"essay-review/provider"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/middlewares/server/recovery"
	"github.com/cloudwego/hertz/pkg/app/server"
	prometheus "github.com/hertz-contrib/monitor-prometheus"
	"github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func Init() {
	provider.Init()
	// 兼容网关透传的 b3 头
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(b3.New(), propagation.TraceContext{}))
}

func main() {
	Init()
	c := config.GetConfig()

	tracer, cfg := tracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(c.ListenOn),
		server.WithTracer(prometheus.NewServerTracer(c.Metrics.Addr, c.Metrics.Path)),
		tracer,
	)
	h.Use(
		recovery.Recovery(),
		tracing.ServerMiddleware(cfg),
		func(ctx context.Context, rc *app.RequestContext) {
			rc.Next(adaptor.InjectContext(ctx, rc))
		},
	)

	customizedRegister(h)
	log.Info("server start, listen on %s", c.ListenOn)
	h.Spin()
}
