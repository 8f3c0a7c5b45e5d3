// Package actor 消费用户推送 token 和联系方式的变更事件
package actor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gitee.com/flycash/communication-platform/internal/domain"
	"gitee.com/flycash/communication-platform/internal/pkg/mqx"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/gotomicro/ego/core/elog"
)

const defaultReadTimeout = time.Second

// Handler 由 actor.Service 实现
type Handler interface {
	HandleAppToken(ctx context.Context, evt domain.ActorAppTokenEvent) error
	HandleCommDetails(ctx context.Context, evt domain.ActorCommDetailsEvent) error
}

type Topics struct {
	AppToken    string `yaml:"appToken"`
	CommDetails string `yaml:"commDetails"`
}

// EventConsumer 一个消费者同时订阅两个 topic，按 topic 分发
type EventConsumer struct {
	consumer    mqx.Consumer
	handler     Handler
	topics      Topics
	readTimeout time.Duration
	logger      *elog.Component
}

func NewEventConsumer(consumer mqx.Consumer, handler Handler, topics Topics) *EventConsumer {
	return &EventConsumer{
		consumer:    consumer,
		handler:     handler,
		topics:      topics,
		readTimeout: defaultReadTimeout,
		logger:      elog.DefaultLogger,
	}
}

func (c *EventConsumer) Start(ctx context.Context) {
	go func() {
		for ctx.Err() == nil {
			er := c.Consume(ctx)
			if er != nil {
				c.logger.Error("消费用户事件失败", elog.FieldErr(er))
			}
		}
	}()
}

// Consume 处理失败的消息记录日志后照常提交
func (c *EventConsumer) Consume(ctx context.Context) error {
	msg, err := c.consumer.ReadMessage(c.readTimeout)
	if err != nil {
		if mqx.IsTimeout(err) {
			return nil
		}
		return fmt.Errorf("获取消息失败: %w", err)
	}

	if err = c.handle(ctx, msg); err != nil {
		c.logger.Warn("处理用户事件失败",
			elog.FieldErr(err),
			elog.String("topic", topicOf(msg)),
			elog.String("value", string(msg.Value)))
	}

	if _, err = c.consumer.CommitMessage(msg); err != nil {
		c.logger.Warn("提交消息失败",
			elog.FieldErr(err),
			elog.Any("partition", msg.TopicPartition.Partition),
			elog.Any("offset", msg.TopicPartition.Offset))
		return err
	}
	return nil
}

func (c *EventConsumer) handle(ctx context.Context, msg *kafka.Message) error {
	switch topicOf(msg) {
	case c.topics.AppToken:
		var evt domain.ActorAppTokenEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return fmt.Errorf("解析消息失败: %w", err)
		}
		return c.handler.HandleAppToken(ctx, evt)
	case c.topics.CommDetails:
		var evt domain.ActorCommDetailsEvent
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			return fmt.Errorf("解析消息失败: %w", err)
		}
		return c.handler.HandleCommDetails(ctx, evt)
	default:
		return fmt.Errorf("未订阅的 topic %s", topicOf(msg))
	}
}

func topicOf(msg *kafka.Message) string {
	if msg.TopicPartition.Topic == nil {
		return ""
	}
	return *msg.TopicPartition.Topic
}
