package main

import (
	"context"

	"gitee.com/flycash/communication-platform/cmd/platform/ioc"
	prodioc "gitee.com/flycash/communication-platform/internal/ioc"
	"github.com/gotomicro/ego"
	"github.com/gotomicro/ego/core/elog"
	"github.com/gotomicro/ego/server/egovernor"
)

func main() {
	// 先初始化 ego，econf 才能读到配置
	egoApp := ego.New()
	app := ioc.InitApp()
	defer prodioc.ShutdownTracer(app.Tracer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.StartTasks(ctx)

	if err := egoApp.Serve(
		egovernor.Load("server.governor").Build(),
		app.Server,
	).Run(); err != nil {
		elog.Panic("startup", elog.FieldErr(err))
	}
}
