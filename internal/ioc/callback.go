package ioc

import (
	"gitee.com/flycash/communication-platform/internal/repository"
	"gitee.com/flycash/communication-platform/internal/service/callback"
	"github.com/gotomicro/ego/core/econf"
)

func InitCallbackService(acks repository.AcknowledgementRepository) *callback.Service {
	// 窗口内同一条消息的同一个状态只处理一次
	window := econf.GetDuration("callback.dedupWindow")
	return callback.NewService(acks, window)
}
