package ioc

import (
	"context"

	"github.com/gotomicro/ego/server/egin"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Task 后台任务，Start 不阻塞
type Task interface {
	Start(ctx context.Context)
}

type App struct {
	Server *egin.Component
	Tasks  []Task
	Tracer *trace.TracerProvider
}

func (a *App) StartTasks(ctx context.Context) {
	for _, t := range a.Tasks {
		t.Start(ctx)
	}
}
