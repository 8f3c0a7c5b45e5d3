// Package communication 消费上游的通知事件，交给派生流水线处理
package communication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/pkg/mqx"
	"gitee.com/flycash/communication-platform/internal/service/derivation"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gotomicro/ego/core/elog"
	"golang.org/x/sync/errgroup"
)

const (
	defaultReadTimeout = time.Second
	defaultWorkers     = 16
)

// Processor 由 derivation.Pipeline 实现
type Processor interface {
	Process(ctx context.Context, evt domain.CommunicationEvent) derivation.Result
	ReportDeserializationFailure(err error)
}

// EventConsumer 单协程拉取消息，交给有上限的协程池并发处理，每条消息处理完之后单独提交
type EventConsumer struct {
	consumer    mqx.Consumer
	processor   Processor
	readTimeout time.Duration
	pool        *errgroup.Group
	logger      *elog.Component
}

// NewEventConsumer consumer 需要已经订阅了通知事件的 topic。
// workers 为同时处理的消息上限，小于等于 0 时使用默认值
func NewEventConsumer(consumer mqx.Consumer, processor Processor, workers int) *EventConsumer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	pool := &errgroup.Group{}
	pool.SetLimit(workers)
	return &EventConsumer{
		consumer:    consumer,
		processor:   processor,
		readTimeout: defaultReadTimeout,
		pool:        pool,
		logger:      elog.DefaultLogger,
	}
}

func (c *EventConsumer) Start(ctx context.Context) {
	go func() {
		for ctx.Err() == nil {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费通知事件失败", elog.FieldErr(er))
			}
		}
		c.Wait()
	}()
}

// Consume 拉取一条消息并提交给协程池，协程池满了之后阻塞，直到有消息处理完
func (c *EventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.ReadMessage(c.readTimeout)
	if err != nil {
		if mqx.IsTimeout(err) {
			return nil
		}
		return fmt.Errorf("获取消息失败: %w", err)
	}
	c.pool.Go(func() error {
		if er := c.handle(ctx, msg); er != nil {
			c.logger.Warn("处理通知事件消息失败",
				elog.FieldErr(er),
				elog.Any("partition", msg.TopicPartition.Partition),
				elog.Any("offset", msg.TopicPartition.Offset))
		}
		return nil
	})
	return nil
}

// Wait 等待已经提交的消息全部处理完
func (c *EventConsumer) Wait() {
	_ = c.pool.Wait()
}

// handle 处理结果不影响提交，失败的事件不会被重新消费。
// 只有在退出过程中没来得及处理的消息不提交
func (c *EventConsumer) handle(ctx context.Context, msg *kafka.Message) error {
	evt, err := Unmarshal(msg.Value)
	if err != nil {
		c.processor.ReportDeserializationFailure(err)
	} else {
		res := c.processor.Process(ctx, evt)
		if !res.Success {
			if ctx.Err() != nil && errors.Is(res.Err, ctx.Err()) {
				return res.Err
			}
			c.logger.Warn("通知事件处理失败",
				elog.String("referenceID", evt.ReferenceID),
				elog.String("template", evt.TemplateName),
				elog.FieldErr(res.Err))
		}
	}

	if _, err = c.consumer.CommitMessage(msg); err != nil {
		return fmt.Errorf("提交消息失败: %w", err)
	}
	return nil
}
