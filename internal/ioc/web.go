package ioc

import (
	"gitee.com/flycash/communication-platform/internal/api/web"
	"github.com/gotomicro/ego/server/egin"
)

func InitGinServer(handler *web.Handler) *egin.Component {
	server := egin.Load("server.http").Build()
	handler.PublicRoutes(server.Engine)
	return server
}
