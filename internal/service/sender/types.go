package sender

import (
	"context"
	"fmt"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/errs"
)

// ChannelSender 把派生事件真正发出去
//
//go:generate mockgen -source=./types.go -destination=./mocks/sender.mock.go -package=sendermocks ChannelSender
type ChannelSender interface {
	Send(ctx context.Context, evt domain.DerivedEvent) error
}

// Dispatcher 按渠道分发给具体的发送器
type Dispatcher struct {
	senders map[domain.Channel]ChannelSender
}

func NewDispatcher(senders map[domain.Channel]ChannelSender) *Dispatcher {
	return &Dispatcher{senders: senders}
}

// Supports 渠道是否配置了发送器
func (d *Dispatcher) Supports(ch domain.Channel) bool {
	_, ok := d.senders[ch]
	return ok
}

func (d *Dispatcher) Send(ctx context.Context, evt domain.DerivedEvent) error {
	s, ok := d.senders[evt.Channel()]
	if !ok {
		return fmt.Errorf("%w: %s", errs.ErrChannelUnsupported, evt.Channel())
	}
	return s.Send(ctx, evt)
}
