package ioc

import (
	"gitee.com/flycash/communication-platform/internal/event/actor"
	"gitee.com/flycash/communication-platform/internal/event/communication"
)

func InitTasks(
	t1 *CacheRefreshTask,
	t2 *communication.EventConsumer,
	t3 *actor.EventConsumer,
) []Task {
	return []Task{
		t1,
		t2,
		t3,
	}
}
