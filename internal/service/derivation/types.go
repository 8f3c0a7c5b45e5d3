package derivation

import (
	"context"

	"gitee.com/flycash/communication-platform/internal/domain"
)

// VendorPicker 按渠道选择供应商
type VendorPicker interface {
	PickVendor(channel domain.Channel) (domain.VendorType, error)
}

// Sender 渠道发送器，Supports 为 false 的渠道会被跳过
type Sender interface {
	Supports(channel domain.Channel) bool
	Send(ctx context.Context, evt domain.DerivedEvent) error
}

type Config struct {
	// MaxInFlight 同时处理的事件上限，达到上限后新的事件阻塞等待
	MaxInFlight int64 `yaml:"maxInFlight"`
	// ActorTypeApps 用户类型 => 可能安装的应用（MobileAppDetails.ID）
	ActorTypeApps map[domain.ActorType][]int64 `yaml:"actorTypeApps"`
}

// Result 单个事件的处理结果，至少一个渠道发送成功即为成功
type Result struct {
	Success bool
	// Channels 每个渠道的发送结果，nil 表示发送成功
	Channels map[domain.Channel]error
	Err      error
}
